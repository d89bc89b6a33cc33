package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-data-api/pkg/contracts/events"
)

type recordingSink struct {
	name string
	err  error
	got  []events.EntityChanged
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Publish(_ context.Context, e events.EntityChanged) error {
	s.got = append(s.got, e)
	return s.err
}

func TestDispatcherFansOutAndStamps(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	failing := &recordingSink{name: "kafka", err: errors.New("broker down")}
	ok := &recordingSink{name: "local"}
	var failed []string

	d := NewDispatcher(clockwork.NewFakeClockAt(at), nil, failing, ok)
	d.OnError = func(s string) { failed = append(failed, s) }
	d.Emit(context.Background(), events.EntityChanged{Kind: "matches", Action: events.ActionUpdated, ID: "m1"})

	require.Len(t, ok.got, 1)
	assert.Equal(t, at, ok.got[0].Ts)
	assert.Len(t, failing.got, 1)
	assert.Equal(t, []string{"kafka"}, failed)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Emit(context.Background(), events.EntityChanged{ID: "x"})
	})
}

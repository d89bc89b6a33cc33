package events

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/radieske/sports-data-api/pkg/contracts/events"
)

const publishTimeout = 2 * time.Second

// Sink recebe os eventos de mudança (kafka, redis pub/sub, hub local)
type Sink interface {
	Name() string
	Publish(ctx context.Context, e events.EntityChanged) error
}

// Dispatcher replica cada evento para todos os sinks. Falhas são logadas e não
// afetam a operação que gerou o evento.
type Dispatcher struct {
	sinks   []Sink
	clock   clockwork.Clock
	log     *zap.Logger
	OnError func(sink string)
}

func NewDispatcher(clock clockwork.Clock, log *zap.Logger, sinks ...Sink) *Dispatcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{sinks: sinks, clock: clock, log: log}
}

func (d *Dispatcher) Emit(ctx context.Context, e events.EntityChanged) {
	if d == nil || len(d.sinks) == 0 {
		return
	}
	e.Ts = d.clock.Now().UTC()
	for _, s := range d.sinks {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		err := s.Publish(pctx, e)
		cancel()
		if err != nil {
			d.log.Warn("publish entity change failed",
				zap.String("sink", s.Name()),
				zap.String("kind", e.Kind),
				zap.String("id", e.ID),
				zap.Error(err),
			)
			if d.OnError != nil {
				d.OnError(s.Name())
			}
		}
	}
}

package model

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("team abc: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("email taken: %w", ErrConflict), http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), "%v", c.err)
	}
}

func TestMatchPatchApplyKeepsUnsetFields(t *testing.T) {
	home := 2
	m := Match{ID: "m1", HomeTeamID: "a", AwayTeamID: "b", Status: StatusScheduled, HomeScore: &home}
	status := StatusLive
	MatchPatch{Status: &status}.Apply(&m)

	assert.Equal(t, StatusLive, m.Status)
	assert.Equal(t, "a", m.HomeTeamID)
	assert.Equal(t, 2, *m.HomeScore)
	assert.Nil(t, m.Prediction)
}

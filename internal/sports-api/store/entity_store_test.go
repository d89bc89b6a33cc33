package store

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

func newTestStore(t *testing.T) (*Store, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC))
	return New(clock), clock
}

func insertTeam(t *testing.T, s *Store, name string) model.Team {
	t.Helper()
	e, err := s.Insert(model.Teams, model.Team{Name: name, Country: "Spain", FoundedYear: 1900, Stadium: name + " Arena"})
	require.NoError(t, err)
	return e.(model.Team)
}

func TestInsertAssignsIDAndTimestamps(t *testing.T) {
	s, clock := newTestStore(t)
	team := insertTeam(t, s, "Real Madrid")

	assert.NotEmpty(t, team.ID)
	assert.Equal(t, clock.Now().UTC(), team.CreatedAt)
	assert.Equal(t, team.CreatedAt, team.UpdatedAt)

	got, ok := s.Get(model.Teams, team.ID)
	require.True(t, ok)
	assert.Equal(t, team, got)
}

func TestInsertPlayerRequiresExistingTeam(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Insert(model.Players, model.Player{Name: "X", Position: "FW", Age: 20, TeamID: "missing"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestInsertMatchDefaultsAndTeamChecks(t *testing.T) {
	s, _ := newTestStore(t)
	a := insertTeam(t, s, "A")
	b := insertTeam(t, s, "B")

	_, err := s.Insert(model.Matches, model.Match{HomeTeamID: a.ID, AwayTeamID: a.ID})
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = s.Insert(model.Matches, model.Match{HomeTeamID: a.ID, AwayTeamID: "ghost"})
	assert.ErrorIs(t, err, model.ErrValidation)

	e, err := s.Insert(model.Matches, model.Match{HomeTeamID: a.ID, AwayTeamID: b.ID, Date: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, e.(model.Match).Status)
}

func TestUserEmailIsUnique(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Insert(model.Users, model.User{Email: "a@b.com", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.Insert(model.Users, model.User{Email: "a@b.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestConcurrentRegistrationKeepsOneUserPerEmail(t *testing.T) {
	s, _ := newTestStore(t)
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Insert(model.Users, model.User{Email: "same@b.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
}

func TestUpdateEmptyPatchRefreshesUpdatedAt(t *testing.T) {
	s, clock := newTestStore(t)
	home := insertTeam(t, s, "A")
	away := insertTeam(t, s, "B")

	name := "Ana"
	rating := 7.5
	score := 2
	user, err := s.Insert(model.Users, model.User{Email: "ana@example.com", PasswordHash: "x", Name: &name})
	require.NoError(t, err)
	player, err := s.Insert(model.Players, model.Player{Name: "P", Position: "GK", Age: 20, Rating: &rating, TeamID: home.ID})
	require.NoError(t, err)
	match, err := s.Insert(model.Matches, model.Match{
		HomeTeamID: home.ID, AwayTeamID: away.ID, Date: clock.Now(), HomeScore: &score,
		Prediction: &model.Prediction{HomeWinProbability: 0.5, PredictedScore: &model.Score{Home: 1}},
	})
	require.NoError(t, err)

	cases := []struct {
		name   string
		c      model.Collection
		before model.Entity
		patch  any
	}{
		{"user", model.Users, user, model.UserPatch{}},
		{"team", model.Teams, home, model.TeamPatch{}},
		{"player", model.Players, player, model.PlayerPatch{}},
		{"match", model.Matches, match, model.MatchPatch{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock.Advance(time.Minute)
			after, err := s.Update(tc.c, tc.before.EntityID(), tc.patch)
			require.NoError(t, err)

			bf, af := tc.before.Fields(), after.Fields()
			require.Len(t, af, len(bf))
			for i := range bf {
				if bf[i].Name == "updatedAt" {
					assert.True(t, af[i].Value.(time.Time).After(bf[i].Value.(time.Time)))
					continue
				}
				assert.Equal(t, bf[i].Value, af[i].Value, bf[i].Name)
			}
		})
	}
}

func TestStoredRowsDoNotShareMemoryWithCallers(t *testing.T) {
	s, _ := newTestStore(t)
	team := insertTeam(t, s, "A")

	rating := 6.0
	in := model.Player{Name: "P", Position: "GK", Age: 20, Rating: &rating, TeamID: team.ID}
	e, err := s.Insert(model.Players, in)
	require.NoError(t, err)

	// escrever pelo ponteiro original não altera o store
	rating = 9.9
	got, ok := s.Get(model.Players, e.EntityID())
	require.True(t, ok)
	assert.Equal(t, 6.0, *got.(model.Player).Rating)

	// nem pelo ponteiro devolvido numa leitura
	*got.(model.Player).Rating = 1.0
	again, _ := s.Get(model.Players, e.EntityID())
	assert.Equal(t, 6.0, *again.(model.Player).Rating)

	var listed model.Player
	s.View(func(r Reader) { listed = r.List(model.Players)[0].(model.Player) })
	*listed.Rating = 2.0
	again, _ = s.Get(model.Players, e.EntityID())
	assert.Equal(t, 6.0, *again.(model.Player).Rating)
}

func TestUpdateMergesOnlySuppliedFields(t *testing.T) {
	s, _ := newTestStore(t)
	team := insertTeam(t, s, "A")
	stadium := "New Ground"

	e, err := s.Update(model.Teams, team.ID, model.TeamPatch{Stadium: &stadium})
	require.NoError(t, err)
	assert.Equal(t, "New Ground", e.(model.Team).Stadium)
	assert.Equal(t, "A", e.(model.Team).Name)
}

func TestUpdateErrors(t *testing.T) {
	s, _ := newTestStore(t)
	team := insertTeam(t, s, "A")

	_, err := s.Update(model.Teams, "nope", model.TeamPatch{})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.Update(model.Teams, team.ID, model.PlayerPatch{})
	assert.ErrorIs(t, err, model.ErrValidation)

	p, err := s.Insert(model.Players, model.Player{Name: "P", TeamID: team.ID})
	require.NoError(t, err)
	ghost := "ghost"
	_, err = s.Update(model.Players, p.EntityID(), model.PlayerPatch{TeamID: &ghost})
	assert.ErrorIs(t, err, model.ErrValidation)

	got, _ := s.Get(model.Players, p.EntityID())
	assert.Equal(t, team.ID, got.(model.Player).TeamID)
}

func TestDeleteTeamCascades(t *testing.T) {
	s, _ := newTestStore(t)
	a := insertTeam(t, s, "A")
	b := insertTeam(t, s, "B")
	c := insertTeam(t, s, "C")

	pa, _ := s.Insert(model.Players, model.Player{Name: "pa", TeamID: a.ID})
	pb, _ := s.Insert(model.Players, model.Player{Name: "pb", TeamID: b.ID})
	m1, _ := s.Insert(model.Matches, model.Match{HomeTeamID: a.ID, AwayTeamID: b.ID})
	m2, _ := s.Insert(model.Matches, model.Match{HomeTeamID: c.ID, AwayTeamID: a.ID})
	m3, _ := s.Insert(model.Matches, model.Match{HomeTeamID: b.ID, AwayTeamID: c.ID})

	_, removal, err := s.Delete(model.Teams, a.ID)
	require.NoError(t, err)
	require.NotNil(t, removal)
	assert.Len(t, removal.Players, 1)
	assert.Equal(t, pa.EntityID(), removal.Players[0].ID)
	assert.Len(t, removal.Matches, 2)

	for _, id := range []string{m1.EntityID(), m2.EntityID()} {
		_, ok := s.Get(model.Matches, id)
		assert.False(t, ok)
	}
	_, ok := s.Get(model.Players, pa.EntityID())
	assert.False(t, ok)
	_, ok = s.Get(model.Players, pb.EntityID())
	assert.True(t, ok)
	_, ok = s.Get(model.Matches, m3.EntityID())
	assert.True(t, ok)
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	team := insertTeam(t, s, "A")

	_, _, err := s.Delete(model.Teams, team.ID)
	require.NoError(t, err)
	_, _, err = s.Delete(model.Teams, team.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	a := insertTeam(t, s, "Z")
	b := insertTeam(t, s, "A")
	c := insertTeam(t, s, "M")
	_, _, err := s.Delete(model.Teams, b.ID)
	require.NoError(t, err)
	d := insertTeam(t, s, "B")

	var got []string
	s.View(func(r Reader) {
		for _, e := range r.List(model.Teams) {
			got = append(got, e.EntityID())
		}
	})
	assert.Equal(t, []string{a.ID, c.ID, d.ID}, got)
}

func TestSeed(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Seed())

	s.View(func(r Reader) {
		assert.Len(t, r.List(model.Teams), 2)
		assert.Len(t, r.List(model.Players), 2)
		matches := r.List(model.Matches)
		require.Len(t, matches, 1)
		assert.NotNil(t, matches[0].(model.Match).Prediction)
	})
}

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

func TestKeysForTeam(t *testing.T) {
	keys := KeysFor(TeamChange(model.Team{ID: "t1"}))
	assert.Equal(t, []string{"team:t1", "teams:all"}, keys)
}

func TestKeysForPlayerReassignment(t *testing.T) {
	before := model.Player{ID: "p1", TeamID: "t1"}
	after := model.Player{ID: "p1", TeamID: "t2"}
	keys := KeysFor(PlayerChange(&before, &after))

	assert.ElementsMatch(t, []string{
		"player:p1", "players:all", "teams:all",
		"players:team:t1", "players:team:t2",
		"team:t1", "team:t2",
	}, keys)
}

func TestKeysForMatchStatusChange(t *testing.T) {
	before := model.Match{ID: "m1", HomeTeamID: "a", AwayTeamID: "b", Status: model.StatusScheduled}
	after := before
	after.Status = model.StatusLive
	keys := KeysFor(MatchChange(&before, &after))

	assert.ElementsMatch(t, []string{
		"match:m1", "matches:all",
		"matches:status:scheduled", "matches:status:live",
		"team:a", "team:b",
	}, keys)
}

func TestRemovalChangesCoverCascade(t *testing.T) {
	r := model.TeamRemoval{
		Team:    model.Team{ID: "a"},
		Players: []model.Player{{ID: "p1", TeamID: "a"}},
		Matches: []model.Match{{ID: "m1", HomeTeamID: "a", AwayTeamID: "b", Status: model.StatusFinished}},
	}
	keys := KeysFor(RemovalChanges(r)...)

	for _, k := range []string{
		"team:a", "teams:all", "player:p1", "players:all", "players:team:a",
		"match:m1", "matches:all", "matches:status:finished", "team:b",
	} {
		assert.Contains(t, keys, k)
	}
	// sem duplicatas
	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], k)
		seen[k] = true
	}
}

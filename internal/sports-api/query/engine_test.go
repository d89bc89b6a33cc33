package query

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

type sliceSource map[model.Collection][]model.Entity

func (s sliceSource) Get(_ context.Context, c model.Collection, id string) (model.Entity, bool, error) {
	for _, e := range s[c] {
		if e.EntityID() == id {
			return e, true, nil
		}
	}
	return nil, false, nil
}

func (s sliceSource) List(_ context.Context, c model.Collection, _ []Predicate) ([]model.Entity, error) {
	return s[c], nil
}

func ptrF(f float64) *float64 { return &f }

func fixture() sliceSource {
	day := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	return sliceSource{
		model.Teams: {
			model.Team{ID: "t1", Name: "Real Madrid", Country: "Spain", FoundedYear: 1902, Stadium: "Bernabeu"},
			model.Team{ID: "t2", Name: "Barcelona", Country: "Spain", FoundedYear: 1899, Stadium: "Camp Nou"},
		},
		model.Players: {
			model.Player{ID: "p1", Name: "A", Position: "FW", Age: 25, Rating: ptrF(8.5), TeamID: "t1"},
			model.Player{ID: "p2", Name: "B", Position: "MF", Age: 27, TeamID: "t2"},
			model.Player{ID: "p3", Name: "C", Position: "DF", Age: 29, Rating: ptrF(8.5), TeamID: "t1"},
		},
		model.Matches: {
			model.Match{ID: "m1", HomeTeamID: "t1", AwayTeamID: "t2", Date: day, Status: model.StatusScheduled},
			model.Match{ID: "m2", HomeTeamID: "t1", AwayTeamID: "t2", Date: day.Add(48 * time.Hour), Status: model.StatusFinished},
		},
	}
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d["id"].(string))
	}
	return out
}

func TestFindManyFiltersAndMembership(t *testing.T) {
	ctx := context.Background()
	src := fixture()

	docs, err := FindMany(ctx, src, model.Players, Options{Where: []Predicate{Eq("teamId", "t1")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(docs))

	docs, err = FindMany(ctx, src, model.Matches, Options{Where: []Predicate{In("status", model.StatusScheduled, model.StatusLive)}})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, ids(docs))

	docs, err = FindMany(ctx, src, model.Teams, Options{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestFindManyUnknownFieldIsMissing(t *testing.T) {
	docs, err := FindMany(context.Background(), fixture(), model.Teams, Options{Where: []Predicate{Eq("nickname", "x")}})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NotNil(t, docs)
}

func TestSortIsStableAndNilRatingSortsAsZero(t *testing.T) {
	docs, err := FindMany(context.Background(), fixture(), model.Players, Options{Sort: Desc("rating")})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3", "p2"}, ids(docs))
	assert.Nil(t, docs[2]["rating"])
}

func TestSortByNameAscending(t *testing.T) {
	docs, err := FindMany(context.Background(), fixture(), model.Teams, Options{Sort: Asc("name")})
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1"}, ids(docs))
}

func TestSelectOmitsUnknownAndKeepsIncludes(t *testing.T) {
	doc, ok, err := FindOne(context.Background(), fixture(), model.Teams, "t1", Options{
		Select:  []string{"id", "name", "ghost"},
		Include: []Include{{Relation: "players", Select: []string{"id", "name", "position"}}},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Document{
		"id":   "t1",
		"name": "Real Madrid",
		"players": []any{
			map[string]any{"id": "p1", "name": "A", "position": "FW"},
			map[string]any{"id": "p3", "name": "C", "position": "DF"},
		},
	}, doc)
}

func TestNestedIncludeWithSortAndLimit(t *testing.T) {
	doc, ok, err := FindOne(context.Background(), fixture(), model.Teams, "t1", Options{
		Include: []Include{{
			Relation: "homeMatches",
			Sort:     Desc("date"),
			Limit:    1,
			Include:  []Include{{Relation: "awayTeam", Select: []string{"id", "name"}}},
		}},
	})
	require.NoError(t, err)
	require.True(t, ok)

	home := doc["homeMatches"].([]any)
	require.Len(t, home, 1)
	m := home[0].(map[string]any)
	assert.Equal(t, "m2", m["id"])
	assert.Equal(t, map[string]any{"id": "t2", "name": "Barcelona"}, m["awayTeam"])
}

func TestUnknownRelationIsRejected(t *testing.T) {
	_, _, err := FindOne(context.Background(), fixture(), model.Teams, "missing", Options{
		Include: []Include{{Relation: "coaches"}},
	})
	assert.ErrorIs(t, err, ErrUnknownRelation)

	_, err = FindMany(context.Background(), fixture(), model.Matches, Options{
		Include: []Include{{Relation: "homeTeam", Include: []Include{{Relation: "owner"}}}},
	})
	assert.ErrorIs(t, err, ErrUnknownRelation)
}

func TestFindOneAbsent(t *testing.T) {
	doc, ok, err := FindOne(context.Background(), fixture(), model.Players, "nope", Options{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestDocumentsSurviveJSONRoundTrip(t *testing.T) {
	pred := model.Prediction{HomeWinProbability: 0.45, AwayWinProbability: 0.3, DrawProbability: 0.25,
		PredictedScore: &model.Score{Home: 2, Away: 1}, Confidence: 0.7}
	src := fixture()
	m := src[model.Matches][0].(model.Match)
	m.Prediction = &pred
	src[model.Matches][0] = m

	docs, err := FindMany(context.Background(), src, model.Matches, Options{
		Include: []Include{{Relation: "homeTeam"}, {Relation: "awayTeam", Select: []string{"id", "name", "country"}}},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(docs)
	require.NoError(t, err)
	var decoded []Document
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, docs, decoded)
}

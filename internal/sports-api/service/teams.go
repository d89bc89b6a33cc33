package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/radieske/sports-data-api/internal/sports-api/cache"
	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/query"
	cevents "github.com/radieske/sports-data-api/pkg/contracts/events"
)

const recentMatches = 5

type Teams struct{ base }

func NewTeams(d Deps) *Teams { return &Teams{base: newBase(d)} }

// List: ordem alfabética com resumo dos jogadores
func (s *Teams) List(ctx context.Context) ([]query.Document, error) {
	return cache.Read(ctx, s.cache, cache.TeamsAllKey, func(ctx context.Context) ([]query.Document, error) {
		return query.FindMany(ctx, s.store, model.Teams, query.Options{
			Sort: query.Asc("name"),
			Include: []query.Include{
				{Relation: "players", Select: []string{"id", "name", "position"}},
			},
		})
	})
}

// Get: todos os jogadores e as 5 partidas mais recentes como mandante e visitante
func (s *Teams) Get(ctx context.Context, id string) (query.Document, error) {
	return cache.Read(ctx, s.cache, cache.TeamKey(id), func(ctx context.Context) (query.Document, error) {
		return s.findOne(ctx, model.Teams, id, teamDetail)
	})
}

var teamDetail = query.Options{
	Include: []query.Include{
		{Relation: "players"},
		{
			Relation: "homeMatches",
			Sort:     query.Desc("date"),
			Limit:    recentMatches,
			Include:  []query.Include{{Relation: "awayTeam", Select: []string{"id", "name"}}},
		},
		{
			Relation: "awayMatches",
			Sort:     query.Desc("date"),
			Limit:    recentMatches,
			Include:  []query.Include{{Relation: "homeTeam", Select: []string{"id", "name"}}},
		},
	},
}

func (s *Teams) Create(ctx context.Context, t model.Team) (query.Document, error) {
	created, err := s.store.CreateTeam(ctx, t)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, event(model.Teams, cevents.ActionCreated, created.ID, []string{created.ID}, created),
		cache.TeamChange(created))
	return s.findOne(ctx, model.Teams, created.ID, query.Options{})
}

// Update também invalida jogadores e partidas do time, que embutem seus dados
func (s *Teams) Update(ctx context.Context, id string, p model.TeamPatch) (query.Document, error) {
	updated, err := s.store.UpdateTeam(ctx, id, p)
	if err != nil {
		return nil, err
	}
	changes, err := s.dependents(ctx, id)
	if err != nil {
		s.log.Warn("collect team dependents failed", zap.String("team_id", id), zap.Error(err))
	}
	changes = append(changes, cache.TeamChange(updated))
	s.changed(ctx, event(model.Teams, cevents.ActionUpdated, id, []string{id}, updated), changes...)
	return s.findOne(ctx, model.Teams, id, query.Options{})
}

// Delete remove o time e, em cascata, seus jogadores e partidas
func (s *Teams) Delete(ctx context.Context, id string) error {
	removal, err := s.store.DeleteTeam(ctx, id)
	if err != nil {
		return err
	}
	teamIDs := []string{id}
	for _, m := range removal.Matches {
		teamIDs = append(teamIDs, m.HomeTeamID, m.AwayTeamID)
	}
	s.changed(ctx, event(model.Teams, cevents.ActionDeleted, id, teamIDs, nil), cache.RemovalChanges(removal)...)
	return nil
}

func (s *Teams) dependents(ctx context.Context, teamID string) ([]cache.Change, error) {
	var out []cache.Change
	players, err := query.FindMany(ctx, s.store, model.Players, query.Options{
		Where:  []query.Predicate{query.Eq("teamId", teamID)},
		Select: []string{"id"},
	})
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		out = append(out, cache.Change{Collection: model.Players, ID: str(p["id"]), Teams: []string{teamID}})
	}
	for _, field := range []string{"homeTeamId", "awayTeamId"} {
		matches, err := query.FindMany(ctx, s.store, model.Matches, query.Options{
			Where:  []query.Predicate{query.Eq(field, teamID)},
			Select: []string{"id", "homeTeamId", "awayTeamId", "status"},
		})
		if err != nil {
			return out, err
		}
		for _, m := range matches {
			out = append(out, cache.Change{
				Collection: model.Matches,
				ID:         str(m["id"]),
				Teams:      []string{str(m["homeTeamId"]), str(m["awayTeamId"])},
				Statuses:   []string{str(m["status"])},
			})
		}
	}
	return out, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

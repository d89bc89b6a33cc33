package service

import (
	"context"

	"github.com/radieske/sports-data-api/internal/sports-api/cache"
	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/query"
	cevents "github.com/radieske/sports-data-api/pkg/contracts/events"
)

type Players struct{ base }

func NewPlayers(d Deps) *Players { return &Players{base: newBase(d)} }

// List ordena por rating desc (sem rating conta como 0); teamID vazio lista todos
func (s *Players) List(ctx context.Context, teamID string) ([]query.Document, error) {
	key := cache.PlayersAllKey
	opts := query.Options{
		Sort: query.Desc("rating"),
		Include: []query.Include{
			{Relation: "team", Select: []string{"id", "name", "country"}},
		},
	}
	if teamID != "" {
		key = cache.PlayersByTeamKey(teamID)
		opts.Where = []query.Predicate{query.Eq("teamId", teamID)}
	}
	return cache.Read(ctx, s.cache, key, func(ctx context.Context) ([]query.Document, error) {
		return query.FindMany(ctx, s.store, model.Players, opts)
	})
}

func (s *Players) Get(ctx context.Context, id string) (query.Document, error) {
	return cache.Read(ctx, s.cache, cache.PlayerKey(id), func(ctx context.Context) (query.Document, error) {
		return s.findOne(ctx, model.Players, id, withTeam)
	})
}

var withTeam = query.Options{Include: []query.Include{{Relation: "team"}}}

// Create exige time existente (ErrValidation)
func (s *Players) Create(ctx context.Context, p model.Player) (query.Document, error) {
	created, err := s.store.CreatePlayer(ctx, p)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, event(model.Players, cevents.ActionCreated, created.ID, []string{created.TeamID}, created),
		cache.PlayerChange(nil, &created))
	return s.findOne(ctx, model.Players, created.ID, withTeam)
}

// Update invalida o time antigo e o novo quando há troca de time
func (s *Players) Update(ctx context.Context, id string, p model.PlayerPatch) (query.Document, error) {
	before, err := getTyped[model.Player](ctx, s.store, model.Players, id)
	if err != nil {
		return nil, err
	}
	after, err := s.store.UpdatePlayer(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, event(model.Players, cevents.ActionUpdated, id, []string{before.TeamID, after.TeamID}, after),
		cache.PlayerChange(&before, &after))
	return s.findOne(ctx, model.Players, id, withTeam)
}

func (s *Players) Delete(ctx context.Context, id string) error {
	removed, err := s.store.DeletePlayer(ctx, id)
	if err != nil {
		return err
	}
	s.changed(ctx, event(model.Players, cevents.ActionDeleted, id, []string{removed.TeamID}, nil),
		cache.PlayerChange(&removed, nil))
	return nil
}

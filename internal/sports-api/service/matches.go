package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/radieske/sports-data-api/internal/sports-api/cache"
	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/prediction"
	"github.com/radieske/sports-data-api/internal/sports-api/query"
	cevents "github.com/radieske/sports-data-api/pkg/contracts/events"
)

type Matches struct {
	base
	predictor *prediction.Predictor
}

func NewMatches(d Deps) *Matches {
	p := d.Predictor
	if p == nil {
		p = prediction.New(nil, d.Log)
	}
	return &Matches{base: newBase(d), predictor: p}
}

var teamSummary = []string{"id", "name", "country"}

// List ordena por data desc; status vazio lista todas
func (s *Matches) List(ctx context.Context, status string) ([]query.Document, error) {
	key := cache.MatchesAllKey
	opts := query.Options{
		Sort: query.Desc("date"),
		Include: []query.Include{
			{Relation: "homeTeam", Select: teamSummary},
			{Relation: "awayTeam", Select: teamSummary},
		},
	}
	if status != "" {
		key = cache.MatchesByStatusKey(status)
		opts.Where = []query.Predicate{query.Eq("status", status)}
	}
	return cache.Read(ctx, s.cache, key, func(ctx context.Context) ([]query.Document, error) {
		return query.FindMany(ctx, s.store, model.Matches, opts)
	})
}

func (s *Matches) Get(ctx context.Context, id string) (query.Document, error) {
	return cache.Read(ctx, s.cache, cache.MatchKey(id), func(ctx context.Context) (query.Document, error) {
		return s.findOne(ctx, model.Matches, id, withTeams)
	})
}

var withTeams = query.Options{Include: []query.Include{{Relation: "homeTeam"}, {Relation: "awayTeam"}}}

// Create valida os times e gera previsão quando a partida está agendada
func (s *Matches) Create(ctx context.Context, m model.Match) (query.Document, error) {
	if m.HomeTeamID == m.AwayTeamID {
		return nil, fmt.Errorf("home and away teams must be different: %w", model.ErrConflict)
	}
	home, err := s.team(ctx, m.HomeTeamID)
	if err != nil {
		return nil, err
	}
	away, err := s.team(ctx, m.AwayTeamID)
	if err != nil {
		return nil, err
	}

	if m.Status == "" {
		m.Status = model.StatusScheduled
	}
	if m.Status == model.StatusScheduled {
		pred := s.predictor.Predict(ctx, home.Name, away.Name)
		m.Prediction = &pred
	}

	created, err := s.store.CreateMatch(ctx, m)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, event(model.Matches, cevents.ActionCreated, created.ID, []string{created.HomeTeamID, created.AwayTeamID}, created),
		cache.MatchChange(nil, &created))
	return s.findOne(ctx, model.Matches, created.ID, withTeams)
}

// Update invalida o status antigo e o novo e os dois times
func (s *Matches) Update(ctx context.Context, id string, p model.MatchPatch) (query.Document, error) {
	before, err := getTyped[model.Match](ctx, s.store, model.Matches, id)
	if err != nil {
		return nil, err
	}
	after, err := s.store.UpdateMatch(ctx, id, p)
	if err != nil {
		return nil, err
	}
	teams := []string{before.HomeTeamID, before.AwayTeamID, after.HomeTeamID, after.AwayTeamID}
	s.changed(ctx, event(model.Matches, cevents.ActionUpdated, id, teams, after),
		cache.MatchChange(&before, &after))
	return s.findOne(ctx, model.Matches, id, withTeams)
}

func (s *Matches) Delete(ctx context.Context, id string) error {
	removed, err := s.store.DeleteMatch(ctx, id)
	if err != nil {
		return err
	}
	s.changed(ctx, event(model.Matches, cevents.ActionDeleted, id, []string{removed.HomeTeamID, removed.AwayTeamID}, nil),
		cache.MatchChange(&removed, nil))
	return nil
}

// Prediction devolve a previsão armazenada ou gera, persiste e devolve uma nova
func (s *Matches) Prediction(ctx context.Context, id string) (model.Prediction, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return model.Prediction{}, err
	}
	if raw, ok := doc["prediction"].(map[string]any); ok {
		if pred, err := decodePrediction(raw); err == nil {
			return pred, nil
		}
	}

	home, _ := doc["homeTeam"].(map[string]any)
	away, _ := doc["awayTeam"].(map[string]any)
	pred := s.predictor.Predict(ctx, str(home["name"]), str(away["name"]))

	before, err := getTyped[model.Match](ctx, s.store, model.Matches, id)
	if err != nil {
		return model.Prediction{}, err
	}
	after, err := s.store.UpdateMatch(ctx, id, model.MatchPatch{Prediction: &pred})
	if err != nil {
		return model.Prediction{}, err
	}
	s.changed(ctx, event(model.Matches, cevents.ActionUpdated, id, []string{after.HomeTeamID, after.AwayTeamID}, after),
		cache.MatchChange(&before, &after))
	return pred, nil
}

func (s *Matches) team(ctx context.Context, id string) (model.Team, error) {
	t, err := getTyped[model.Team](ctx, s.store, model.Teams, id)
	if err != nil {
		return model.Team{}, fmt.Errorf("team %s not found: %w", id, model.ErrValidation)
	}
	return t, nil
}

func decodePrediction(raw map[string]any) (model.Prediction, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return model.Prediction{}, err
	}
	var p model.Prediction
	err = json.Unmarshal(b, &p)
	return p, err
}

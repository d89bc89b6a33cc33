package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/radieske/sports-data-api/internal/sports-api/cache"
	"github.com/radieske/sports-data-api/internal/sports-api/events"
	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/prediction"
	"github.com/radieske/sports-data-api/internal/sports-api/query"
	cevents "github.com/radieske/sports-data-api/pkg/contracts/events"
)

// Deps agrupa os colaboradores compartilhados pelos services
type Deps struct {
	Store     Store
	Cache     *cache.Layer
	Predictor *prediction.Predictor
	Events    *events.Dispatcher
	Log       *zap.Logger
}

type base struct {
	store  Store
	cache  *cache.Layer
	events *events.Dispatcher
	log    *zap.Logger
}

func newBase(d Deps) base {
	b := base{store: d.Store, cache: d.Cache, events: d.Events, log: d.Log}
	if b.cache == nil {
		b.cache = cache.Disabled()
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}
	return b
}

// changed invalida as chaves afetadas e publica o evento; sempre depois da escrita no store
func (b base) changed(ctx context.Context, e cevents.EntityChanged, changes ...cache.Change) {
	b.cache.Invalidate(ctx, cache.KeysFor(changes...)...)
	b.events.Emit(ctx, e)
}

// findOne lê um documento sem cache; ausente vira ErrNotFound
func (b base) findOne(ctx context.Context, c model.Collection, id string, opts query.Options) (query.Document, error) {
	doc, ok, err := query.FindOne(ctx, b.store, c, id, opts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", c, id, model.ErrNotFound)
	}
	return doc, nil
}

func getTyped[T model.Entity](ctx context.Context, s Store, c model.Collection, id string) (T, error) {
	var zero T
	e, ok, err := s.Get(ctx, c, id)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", c, id, model.ErrNotFound)
	}
	v, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("%s %s: unexpected entity %T", c, id, e)
	}
	return v, nil
}

func event(kind model.Collection, action, id string, teamIDs []string, payload any) cevents.EntityChanged {
	return cevents.EntityChanged{Kind: string(kind), Action: action, ID: id, TeamIDs: unique(teamIDs), Payload: payload}
}

func unique(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Services reúne os services de domínio
type Services struct {
	Teams   *Teams
	Players *Players
	Matches *Matches
	Auth    *Auth
}

func New(d Deps, tokens TokenIssuer) *Services {
	return &Services{
		Teams:   NewTeams(d),
		Players: NewPlayers(d),
		Matches: NewMatches(d),
		Auth:    NewAuth(d, tokens),
	}
}

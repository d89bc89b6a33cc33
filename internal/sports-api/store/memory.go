package store

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/query"
)

// Memory expõe o Store em memória com a API tipada usada pelos services
type Memory struct {
	store *Store
}

func NewMemory(clock clockwork.Clock) *Memory {
	return &Memory{store: New(clock)}
}

// Entities dá acesso ao Store genérico (seed e testes)
func (m *Memory) Entities() *Store { return m.store }

func (m *Memory) Kind() string { return "memory" }

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// View implementa query.Viewer: a consulta inteira roda sob o lock de leitura
func (m *Memory) View(_ context.Context, fn func(query.Source) error) error {
	var err error
	m.store.View(func(r Reader) {
		err = fn(readerSource{r: r})
	})
	return err
}

func (m *Memory) Get(_ context.Context, c model.Collection, id string) (model.Entity, bool, error) {
	e, ok := m.store.Get(c, id)
	return e, ok, nil
}

func (m *Memory) List(_ context.Context, c model.Collection, _ []query.Predicate) ([]model.Entity, error) {
	var out []model.Entity
	m.store.View(func(r Reader) { out = r.List(c) })
	return out, nil
}

type readerSource struct{ r Reader }

func (s readerSource) Get(_ context.Context, c model.Collection, id string) (model.Entity, bool, error) {
	e, ok := s.r.Get(c, id)
	return e, ok, nil
}

func (s readerSource) List(_ context.Context, c model.Collection, _ []query.Predicate) ([]model.Entity, error) {
	return s.r.List(c), nil
}

func (m *Memory) CreateUser(_ context.Context, u model.User) (model.User, error) {
	e, err := m.store.Insert(model.Users, u)
	if err != nil {
		return model.User{}, err
	}
	return e.(model.User), nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (model.User, bool, error) {
	var (
		found model.User
		ok    bool
	)
	m.store.View(func(r Reader) {
		for _, e := range r.List(model.Users) {
			if u := e.(model.User); u.Email == email {
				found, ok = u, true
				return
			}
		}
	})
	return found, ok, nil
}

func (m *Memory) CreateTeam(_ context.Context, t model.Team) (model.Team, error) {
	e, err := m.store.Insert(model.Teams, t)
	if err != nil {
		return model.Team{}, err
	}
	return e.(model.Team), nil
}

func (m *Memory) UpdateTeam(_ context.Context, id string, p model.TeamPatch) (model.Team, error) {
	e, err := m.store.Update(model.Teams, id, p)
	if err != nil {
		return model.Team{}, err
	}
	return e.(model.Team), nil
}

func (m *Memory) DeleteTeam(_ context.Context, id string) (model.TeamRemoval, error) {
	_, removal, err := m.store.Delete(model.Teams, id)
	if err != nil {
		return model.TeamRemoval{}, err
	}
	return *removal, nil
}

func (m *Memory) CreatePlayer(_ context.Context, p model.Player) (model.Player, error) {
	e, err := m.store.Insert(model.Players, p)
	if err != nil {
		return model.Player{}, err
	}
	return e.(model.Player), nil
}

func (m *Memory) UpdatePlayer(_ context.Context, id string, p model.PlayerPatch) (model.Player, error) {
	e, err := m.store.Update(model.Players, id, p)
	if err != nil {
		return model.Player{}, err
	}
	return e.(model.Player), nil
}

func (m *Memory) DeletePlayer(_ context.Context, id string) (model.Player, error) {
	e, _, err := m.store.Delete(model.Players, id)
	if err != nil {
		return model.Player{}, err
	}
	return e.(model.Player), nil
}

func (m *Memory) CreateMatch(_ context.Context, mt model.Match) (model.Match, error) {
	e, err := m.store.Insert(model.Matches, mt)
	if err != nil {
		return model.Match{}, err
	}
	return e.(model.Match), nil
}

func (m *Memory) UpdateMatch(_ context.Context, id string, p model.MatchPatch) (model.Match, error) {
	e, err := m.store.Update(model.Matches, id, p)
	if err != nil {
		return model.Match{}, err
	}
	return e.(model.Match), nil
}

func (m *Memory) DeleteMatch(_ context.Context, id string) (model.Match, error) {
	e, _, err := m.store.Delete(model.Matches, id)
	if err != nil {
		return model.Match{}, err
	}
	return e.(model.Match), nil
}

package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

type table struct {
	order []string
	rows  map[string]model.Entity
}

func newTable() *table { return &table{rows: map[string]model.Entity{}} }

func (t *table) put(e model.Entity) {
	if _, ok := t.rows[e.EntityID()]; !ok {
		t.order = append(t.order, e.EntityID())
	}
	t.rows[e.EntityID()] = detach(e)
}

func (t *table) remove(id string) {
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

func (t *table) all() []model.Entity {
	out := make([]model.Entity, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, detach(t.rows[id]))
	}
	return out
}

// Store é o dono em memória das entidades. Um único RWMutex cobre as quatro coleções,
// então a cascata de delete nunca é observada pela metade.
type Store struct {
	mu     sync.RWMutex
	clock  clockwork.Clock
	tables map[model.Collection]*table
}

func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock: clock,
		tables: map[model.Collection]*table{
			model.Users:   newTable(),
			model.Teams:   newTable(),
			model.Players: newTable(),
			model.Matches: newTable(),
		},
	}
}

// Reader é a visão sem lock usada dentro de View
type Reader struct{ s *Store }

func (r Reader) Get(c model.Collection, id string) (model.Entity, bool) { return r.s.get(c, id) }

func (r Reader) List(c model.Collection) []model.Entity {
	t, ok := r.s.tables[c]
	if !ok {
		return nil
	}
	return t.all()
}

// View executa fn sob o lock de leitura (snapshot durante toda a consulta)
func (s *Store) View(fn func(Reader)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(Reader{s: s})
}

func (s *Store) Get(c model.Collection, id string) (model.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(c, id)
}

func (s *Store) get(c model.Collection, id string) (model.Entity, bool) {
	t, ok := s.tables[c]
	if !ok {
		return nil, false
	}
	e, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return detach(e), true
}

// Insert gera ID e timestamps e devolve a entidade armazenada
func (s *Store) Insert(c model.Collection, e model.Entity) (model.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	id := uuid.NewString()
	stamps := model.Timestamps{CreatedAt: now, UpdatedAt: now}

	var stored model.Entity
	switch v := e.(type) {
	case model.User:
		if c != model.Users {
			return nil, mismatch(c, e)
		}
		for _, other := range s.tables[model.Users].rows {
			if other.(model.User).Email == v.Email {
				return nil, fmt.Errorf("email %s already registered: %w", v.Email, model.ErrConflict)
			}
		}
		v.ID, v.Timestamps = id, stamps
		stored = v
	case model.Team:
		if c != model.Teams {
			return nil, mismatch(c, e)
		}
		v.ID, v.Timestamps = id, stamps
		stored = v
	case model.Player:
		if c != model.Players {
			return nil, mismatch(c, e)
		}
		if err := s.checkTeam(v.TeamID); err != nil {
			return nil, err
		}
		v.ID, v.Timestamps = id, stamps
		stored = v
	case model.Match:
		if c != model.Matches {
			return nil, mismatch(c, e)
		}
		if err := s.checkMatchTeams(v.HomeTeamID, v.AwayTeamID); err != nil {
			return nil, err
		}
		if v.Status == "" {
			v.Status = model.StatusScheduled
		}
		v.Date = v.Date.UTC()
		v.ID, v.Timestamps = id, stamps
		stored = v
	default:
		return nil, mismatch(c, e)
	}

	s.tables[c].put(stored)
	return stored, nil
}

// Update aplica um patch parcial; ID e CreatedAt nunca mudam, UpdatedAt sempre avança
func (s *Store) Update(c model.Collection, id string, patch any) (model.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.get(c, id)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", c, id, model.ErrNotFound)
	}
	now := s.clock.Now().UTC()

	var updated model.Entity
	switch v := cur.(type) {
	case model.User:
		p, ok := patch.(model.UserPatch)
		if !ok {
			return nil, badPatch(c, patch)
		}
		if p.Email != nil && *p.Email != v.Email {
			for _, other := range s.tables[model.Users].rows {
				if other.(model.User).Email == *p.Email {
					return nil, fmt.Errorf("email %s already registered: %w", *p.Email, model.ErrConflict)
				}
			}
		}
		p.Apply(&v)
		v.UpdatedAt = now
		updated = v
	case model.Team:
		p, ok := patch.(model.TeamPatch)
		if !ok {
			return nil, badPatch(c, patch)
		}
		p.Apply(&v)
		v.UpdatedAt = now
		updated = v
	case model.Player:
		p, ok := patch.(model.PlayerPatch)
		if !ok {
			return nil, badPatch(c, patch)
		}
		p.Apply(&v)
		if err := s.checkTeam(v.TeamID); err != nil {
			return nil, err
		}
		v.UpdatedAt = now
		updated = v
	case model.Match:
		p, ok := patch.(model.MatchPatch)
		if !ok {
			return nil, badPatch(c, patch)
		}
		p.Apply(&v)
		if err := s.checkMatchTeams(v.HomeTeamID, v.AwayTeamID); err != nil {
			return nil, err
		}
		v.UpdatedAt = now
		updated = v
	}

	s.tables[c].put(updated)
	return updated, nil
}

// Delete remove a entidade. Time apaga também seus jogadores e partidas.
func (s *Store) Delete(c model.Collection, id string) (model.Entity, *model.TeamRemoval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.get(c, id)
	if !ok {
		return nil, nil, fmt.Errorf("%s %s: %w", c, id, model.ErrNotFound)
	}
	s.tables[c].remove(id)

	team, isTeam := cur.(model.Team)
	if !isTeam {
		return cur, nil, nil
	}

	removal := &model.TeamRemoval{Team: team}
	for _, e := range s.tables[model.Players].all() {
		if p := e.(model.Player); p.TeamID == id {
			s.tables[model.Players].remove(p.ID)
			removal.Players = append(removal.Players, p)
		}
	}
	for _, e := range s.tables[model.Matches].all() {
		if m := e.(model.Match); m.HomeTeamID == id || m.AwayTeamID == id {
			s.tables[model.Matches].remove(m.ID)
			removal.Matches = append(removal.Matches, m)
		}
	}
	return cur, removal, nil
}

func (s *Store) checkTeam(id string) error {
	if _, ok := s.get(model.Teams, id); !ok {
		return fmt.Errorf("team %s does not exist: %w", id, model.ErrValidation)
	}
	return nil
}

func (s *Store) checkMatchTeams(home, away string) error {
	if home == away {
		return fmt.Errorf("home and away team must differ: %w", model.ErrConflict)
	}
	if err := s.checkTeam(home); err != nil {
		return err
	}
	return s.checkTeam(away)
}

func mismatch(c model.Collection, e model.Entity) error {
	return fmt.Errorf("entity %T does not belong to %s: %w", e, c, model.ErrValidation)
}

func badPatch(c model.Collection, p any) error {
	return fmt.Errorf("patch %T does not apply to %s: %w", p, c, model.ErrValidation)
}

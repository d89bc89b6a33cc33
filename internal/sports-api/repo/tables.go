package repo

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/query"
)

type scanner interface {
	Scan(dest ...any) error
}

type table struct {
	name    string
	columns []string
	// campos que podem ir para o WHERE (campo -> coluna)
	filters map[string]string
	scan    func(scanner) (model.Entity, error)
}

func (t table) selectList() string { return strings.Join(t.columns, ", ") }

var tables = map[model.Collection]table{
	model.Users: {
		name:    "users",
		columns: []string{"id", "email", "password", "name", "created_at", "updated_at"},
		filters: map[string]string{"id": "id", "email": "email"},
		scan:    func(s scanner) (model.Entity, error) { return scanUser(s) },
	},
	model.Teams: {
		name:    "teams",
		columns: []string{"id", "name", "country", "founded_year", "stadium", "created_at", "updated_at"},
		filters: map[string]string{"id": "id", "name": "name", "country": "country"},
		scan:    func(s scanner) (model.Entity, error) { return scanTeam(s) },
	},
	model.Players: {
		name: "players",
		columns: []string{"id", "name", "position", "age", "goals", "assists", "matches_played",
			"rating", "team_id", "created_at", "updated_at"},
		filters: map[string]string{"id": "id", "teamId": "team_id", "position": "position", "name": "name"},
		scan:    func(s scanner) (model.Entity, error) { return scanPlayer(s) },
	},
	model.Matches: {
		name: "matches",
		columns: []string{"id", "home_team_id", "away_team_id", "date", "status", "home_score", "away_score",
			"prediction", "created_at", "updated_at"},
		filters: map[string]string{"id": "id", "homeTeamId": "home_team_id", "awayTeamId": "away_team_id", "status": "status"},
		scan:    func(s scanner) (model.Entity, error) { return scanMatch(s) },
	},
}

func tableFor(c model.Collection) (table, error) {
	t, ok := tables[c]
	if !ok {
		return table{}, fmt.Errorf("unknown collection %q", c)
	}
	return t, nil
}

// buildList monta o SELECT com os predicados que dá para empurrar para o banco.
// Os demais ficam para o query engine, que sempre refiltra.
func buildList(t table, where []query.Predicate) (string, []any) {
	var (
		conds []string
		args  []any
	)
	for _, p := range where {
		col, ok := t.filters[p.Field]
		if !ok || len(p.Values) == 0 {
			continue
		}
		vals := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			s, ok := v.(string)
			if !ok {
				vals = nil
				break
			}
			vals = append(vals, s)
		}
		if vals == nil {
			continue
		}
		if len(vals) == 1 {
			args = append(args, vals[0])
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
			continue
		}
		marks := make([]string, 0, len(vals))
		for _, v := range vals {
			args = append(args, v)
			marks = append(marks, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, fmt.Sprintf("%s IN (%s)", col, strings.Join(marks, ", ")))
	}

	q := "SELECT " + t.selectList() + " FROM " + t.name
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	return q + " ORDER BY seq", args
}

func scanUser(s scanner) (model.User, error) {
	var (
		u    model.User
		name sql.NullString
	)
	if err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return model.User{}, err
	}
	if name.Valid {
		u.Name = &name.String
	}
	u.CreatedAt, u.UpdatedAt = u.CreatedAt.UTC(), u.UpdatedAt.UTC()
	return u, nil
}

func scanTeam(s scanner) (model.Team, error) {
	var t model.Team
	if err := s.Scan(&t.ID, &t.Name, &t.Country, &t.FoundedYear, &t.Stadium, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return model.Team{}, err
	}
	t.CreatedAt, t.UpdatedAt = t.CreatedAt.UTC(), t.UpdatedAt.UTC()
	return t, nil
}

func scanPlayer(s scanner) (model.Player, error) {
	var (
		p      model.Player
		rating sql.NullFloat64
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Position, &p.Age, &p.Goals, &p.Assists, &p.MatchesPlayed,
		&rating, &p.TeamID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return model.Player{}, err
	}
	if rating.Valid {
		p.Rating = &rating.Float64
	}
	p.CreatedAt, p.UpdatedAt = p.CreatedAt.UTC(), p.UpdatedAt.UTC()
	return p, nil
}

func scanMatch(s scanner) (model.Match, error) {
	var (
		m          model.Match
		home, away sql.NullInt64
		pred       []byte
	)
	if err := s.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.Date, &m.Status, &home, &away,
		&pred, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return model.Match{}, err
	}
	if home.Valid {
		v := int(home.Int64)
		m.HomeScore = &v
	}
	if away.Valid {
		v := int(away.Int64)
		m.AwayScore = &v
	}
	if len(pred) > 0 {
		var p model.Prediction
		if err := json.Unmarshal(pred, &p); err != nil {
			return model.Match{}, fmt.Errorf("decode prediction: %w", err)
		}
		m.Prediction = &p
	}
	m.Date, m.CreatedAt, m.UpdatedAt = m.Date.UTC(), m.CreatedAt.UTC(), m.UpdatedAt.UTC()
	return m, nil
}

func predictionArg(p *model.Prediction) (any, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

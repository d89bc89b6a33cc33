package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/query"
)

// códigos de erro do Postgres que viram erros de domínio
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// queryer é satisfeito por *sql.DB e *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
}

// Postgres implementa o store durável sobre database/sql + lib/pq
type Postgres struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewPostgres(db *sql.DB, clock clockwork.Clock) *Postgres {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Postgres{db: db, clock: clock}
}

func (p *Postgres) Kind() string { return "postgresql" }

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Close() error { return p.db.Close() }

// View roda a consulta inteira numa transação read-only REPEATABLE READ (snapshot)
func (p *Postgres) View(ctx context.Context, fn func(query.Source) error) error {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()
	if err := fn(source{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Postgres) Get(ctx context.Context, c model.Collection, id string) (model.Entity, bool, error) {
	return source{q: p.db}.Get(ctx, c, id)
}

func (p *Postgres) List(ctx context.Context, c model.Collection, where []query.Predicate) ([]model.Entity, error) {
	return source{q: p.db}.List(ctx, c, where)
}

type source struct{ q queryer }

func (s source) Get(ctx context.Context, c model.Collection, id string) (model.Entity, bool, error) {
	t, err := tableFor(c)
	if err != nil {
		return nil, false, err
	}
	row := s.q.QueryRowContext(ctx, "SELECT "+t.selectList()+" FROM "+t.name+" WHERE id = $1", id)
	e, err := t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", c, err)
	}
	return e, true, nil
}

func (s source) List(ctx context.Context, c model.Collection, where []query.Predicate) ([]model.Entity, error) {
	t, err := tableFor(c)
	if err != nil {
		return nil, err
	}
	q, args := buildList(t, where)
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c, err)
	}
	defer rows.Close()

	var out []model.Entity
	for rows.Next() {
		e, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", c, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (p *Postgres) now() (string, model.Timestamps) {
	now := p.clock.Now().UTC()
	return uuid.NewString(), model.Timestamps{CreatedAt: now, UpdatedAt: now}
}

func (p *Postgres) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	u.ID, u.Timestamps = p.now()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO users(id, email, password, name, created_at, updated_at) VALUES($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return model.User{}, classify("create user", err)
	}
	return u, nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (model.User, bool, error) {
	t := tables[model.Users]
	u, err := scanUser(p.db.QueryRowContext(ctx, "SELECT "+t.selectList()+" FROM users WHERE email = $1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("user by email: %w", err)
	}
	return u, true, nil
}

func (p *Postgres) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	t.ID, t.Timestamps = p.now()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO teams(id, name, country, founded_year, stadium, created_at, updated_at) VALUES($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.Name, t.Country, t.FoundedYear, t.Stadium, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return model.Team{}, classify("create team", err)
	}
	return t, nil
}

func (p *Postgres) UpdateTeam(ctx context.Context, id string, patch model.TeamPatch) (model.Team, error) {
	var out model.Team
	err := p.inTx(ctx, func(tx *sql.Tx) error {
		t, err := scanTeam(tx.QueryRowContext(ctx, "SELECT "+tables[model.Teams].selectList()+" FROM teams WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			return notFound("team", id, err)
		}
		patch.Apply(&t)
		t.UpdatedAt = p.clock.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE teams SET name=$2, country=$3, founded_year=$4, stadium=$5, updated_at=$6 WHERE id=$1`,
			t.ID, t.Name, t.Country, t.FoundedYear, t.Stadium, t.UpdatedAt); err != nil {
			return classify("update team", err)
		}
		out = t
		return nil
	})
	return out, err
}

// DeleteTeam apaga o time; jogadores e partidas caem pelo ON DELETE CASCADE
// na mesma transação em que são lidos para o retorno
func (p *Postgres) DeleteTeam(ctx context.Context, id string) (model.TeamRemoval, error) {
	var out model.TeamRemoval
	err := p.inTx(ctx, func(tx *sql.Tx) error {
		t, err := scanTeam(tx.QueryRowContext(ctx, "SELECT "+tables[model.Teams].selectList()+" FROM teams WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			return notFound("team", id, err)
		}
		out.Team = t

		src := source{q: tx}
		players, err := src.List(ctx, model.Players, []query.Predicate{query.Eq("teamId", id)})
		if err != nil {
			return err
		}
		for _, e := range players {
			out.Players = append(out.Players, e.(model.Player))
		}
		for _, field := range []string{"homeTeamId", "awayTeamId"} {
			matches, err := src.List(ctx, model.Matches, []query.Predicate{query.Eq(field, id)})
			if err != nil {
				return err
			}
			for _, e := range matches {
				out.Matches = append(out.Matches, e.(model.Match))
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete team: %w", err)
		}
		return nil
	})
	return out, err
}

func (p *Postgres) CreatePlayer(ctx context.Context, pl model.Player) (model.Player, error) {
	pl.ID, pl.Timestamps = p.now()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO players(id, name, position, age, goals, assists, matches_played, rating, team_id, created_at, updated_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		pl.ID, pl.Name, pl.Position, pl.Age, pl.Goals, pl.Assists, pl.MatchesPlayed, nullFloat(pl.Rating),
		pl.TeamID, pl.CreatedAt, pl.UpdatedAt)
	if err != nil {
		return model.Player{}, classify("create player", err)
	}
	return pl, nil
}

func (p *Postgres) UpdatePlayer(ctx context.Context, id string, patch model.PlayerPatch) (model.Player, error) {
	var out model.Player
	err := p.inTx(ctx, func(tx *sql.Tx) error {
		pl, err := scanPlayer(tx.QueryRowContext(ctx, "SELECT "+tables[model.Players].selectList()+" FROM players WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			return notFound("player", id, err)
		}
		patch.Apply(&pl)
		pl.UpdatedAt = p.clock.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE players SET name=$2, position=$3, age=$4, goals=$5, assists=$6, matches_played=$7, rating=$8, team_id=$9, updated_at=$10
			 WHERE id=$1`,
			pl.ID, pl.Name, pl.Position, pl.Age, pl.Goals, pl.Assists, pl.MatchesPlayed, nullFloat(pl.Rating),
			pl.TeamID, pl.UpdatedAt); err != nil {
			return classify("update player", err)
		}
		out = pl
		return nil
	})
	return out, err
}

func (p *Postgres) DeletePlayer(ctx context.Context, id string) (model.Player, error) {
	pl, err := scanPlayer(p.db.QueryRowContext(ctx,
		"DELETE FROM players WHERE id = $1 RETURNING "+tables[model.Players].selectList(), id))
	if err != nil {
		return model.Player{}, notFound("player", id, err)
	}
	return pl, nil
}

func (p *Postgres) CreateMatch(ctx context.Context, m model.Match) (model.Match, error) {
	m.ID, m.Timestamps = p.now()
	if m.Status == "" {
		m.Status = model.StatusScheduled
	}
	m.Date = m.Date.UTC()
	pred, err := predictionArg(m.Prediction)
	if err != nil {
		return model.Match{}, err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO matches(id, home_team_id, away_team_id, date, status, home_score, away_score, prediction, created_at, updated_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.HomeTeamID, m.AwayTeamID, m.Date, m.Status, nullInt(m.HomeScore), nullInt(m.AwayScore),
		pred, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return model.Match{}, classify("create match", err)
	}
	return m, nil
}

func (p *Postgres) UpdateMatch(ctx context.Context, id string, patch model.MatchPatch) (model.Match, error) {
	var out model.Match
	err := p.inTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMatch(tx.QueryRowContext(ctx, "SELECT "+tables[model.Matches].selectList()+" FROM matches WHERE id = $1 FOR UPDATE", id))
		if err != nil {
			return notFound("match", id, err)
		}
		patch.Apply(&m)
		m.UpdatedAt = p.clock.Now().UTC()
		pred, err := predictionArg(m.Prediction)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE matches SET home_team_id=$2, away_team_id=$3, date=$4, status=$5, home_score=$6, away_score=$7, prediction=$8, updated_at=$9
			 WHERE id=$1`,
			m.ID, m.HomeTeamID, m.AwayTeamID, m.Date, m.Status, nullInt(m.HomeScore), nullInt(m.AwayScore),
			pred, m.UpdatedAt); err != nil {
			return classify("update match", err)
		}
		out = m
		return nil
	})
	return out, err
}

func (p *Postgres) DeleteMatch(ctx context.Context, id string) (model.Match, error) {
	m, err := scanMatch(p.db.QueryRowContext(ctx,
		"DELETE FROM matches WHERE id = $1 RETURNING "+tables[model.Matches].selectList(), id))
	if err != nil {
		return model.Match{}, notFound("match", id, err)
	}
	return m, nil
}

func (p *Postgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func notFound(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, model.ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", kind, err)
}

// classify traduz violações de constraint para os erros de domínio
func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pqErr.Message, model.ErrConflict)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: referenced team does not exist: %w", op, model.ErrValidation)
		case pqCheckViolation:
			if pqErr.Constraint == "matches_distinct_teams" {
				return fmt.Errorf("%s: home and away team must differ: %w", op, model.ErrConflict)
			}
			return fmt.Errorf("%s: %s: %w", op, pqErr.Message, model.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

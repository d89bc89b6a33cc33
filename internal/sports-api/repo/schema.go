package repo

import (
	"context"
	"fmt"
)

// seq preserva a ordem de inserção; as FKs com ON DELETE CASCADE fazem a cascata do time
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		seq        BIGSERIAL,
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		name       TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		seq          BIGSERIAL,
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		country      TEXT NOT NULL,
		founded_year INT NOT NULL,
		stadium      TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		seq            BIGSERIAL,
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		position       TEXT NOT NULL,
		age            INT NOT NULL,
		goals          INT NOT NULL DEFAULT 0,
		assists        INT NOT NULL DEFAULT 0,
		matches_played INT NOT NULL DEFAULT 0,
		rating         DOUBLE PRECISION,
		team_id        TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		seq          BIGSERIAL,
		id           TEXT PRIMARY KEY,
		home_team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		away_team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		date         TIMESTAMPTZ NOT NULL,
		status       TEXT NOT NULL CHECK (status IN ('scheduled','live','finished')),
		home_score   INT,
		away_score   INT,
		prediction   JSONB,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL,
		CONSTRAINT matches_distinct_teams CHECK (home_team_id <> away_team_id)
	)`,
	`CREATE INDEX IF NOT EXISTS players_team_id_idx ON players(team_id)`,
	`CREATE INDEX IF NOT EXISTS matches_home_team_id_idx ON matches(home_team_id)`,
	`CREATE INDEX IF NOT EXISTS matches_away_team_id_idx ON matches(away_team_id)`,
	`CREATE INDEX IF NOT EXISTS matches_status_idx ON matches(status)`,
}

// EnsureSchema cria as tabelas se não existirem
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

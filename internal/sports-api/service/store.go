package service

import (
	"context"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
	"github.com/radieske/sports-data-api/internal/sports-api/query"
)

// Store é o colaborador de persistência: escrita tipada + leitura pelo query engine.
// Implementado por store.Memory e repo.Postgres.
type Store interface {
	query.Source

	Kind() string
	Ping(ctx context.Context) error
	Close() error

	CreateUser(ctx context.Context, u model.User) (model.User, error)
	UserByEmail(ctx context.Context, email string) (model.User, bool, error)

	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	UpdateTeam(ctx context.Context, id string, p model.TeamPatch) (model.Team, error)
	DeleteTeam(ctx context.Context, id string) (model.TeamRemoval, error)

	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	UpdatePlayer(ctx context.Context, id string, p model.PlayerPatch) (model.Player, error)
	DeletePlayer(ctx context.Context, id string) (model.Player, error)

	CreateMatch(ctx context.Context, m model.Match) (model.Match, error)
	UpdateMatch(ctx context.Context, id string, p model.MatchPatch) (model.Match, error)
	DeleteMatch(ctx context.Context, id string) (model.Match, error)
}

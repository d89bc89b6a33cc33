package query

import (
	"fmt"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

type relation struct {
	target       model.Collection
	many         bool
	localField   string // campo na origem
	foreignField string // campo no destino
	defaultLimit int
}

var relations = map[model.Collection]map[string]relation{
	model.Teams: {
		"players":     {target: model.Players, many: true, localField: "id", foreignField: "teamId"},
		"homeMatches": {target: model.Matches, many: true, localField: "id", foreignField: "homeTeamId", defaultLimit: 10},
		"awayMatches": {target: model.Matches, many: true, localField: "id", foreignField: "awayTeamId", defaultLimit: 10},
	},
	model.Players: {
		"team": {target: model.Teams, localField: "teamId", foreignField: "id"},
	},
	model.Matches: {
		"homeTeam": {target: model.Teams, localField: "homeTeamId", foreignField: "id"},
		"awayTeam": {target: model.Teams, localField: "awayTeamId", foreignField: "id"},
	},
}

func lookupRelation(c model.Collection, name string) (relation, error) {
	rel, ok := relations[c][name]
	if !ok {
		return relation{}, fmt.Errorf("%s.%s: %w", c, name, ErrUnknownRelation)
	}
	return rel, nil
}

// validateIncludes rejeita relações desconhecidas antes de qualquer leitura
func validateIncludes(c model.Collection, incs []Include) error {
	for _, inc := range incs {
		rel, err := lookupRelation(c, inc.Relation)
		if err != nil {
			return err
		}
		if err := validateIncludes(rel.target, inc.Include); err != nil {
			return err
		}
	}
	return nil
}

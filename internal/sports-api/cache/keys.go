package cache

import "github.com/radieske/sports-data-api/internal/sports-api/model"

const (
	TeamsAllKey   = "teams:all"
	PlayersAllKey = "players:all"
	MatchesAllKey = "matches:all"
)

func TeamKey(id string) string              { return "team:" + id }
func PlayerKey(id string) string            { return "player:" + id }
func MatchKey(id string) string             { return "match:" + id }
func PlayersByTeamKey(teamID string) string { return "players:team:" + teamID }
func MatchesByStatusKey(s string) string    { return "matches:status:" + s }

// Change descreve uma mutação: referências de antes e depois (times, status)
type Change struct {
	Collection model.Collection
	ID         string
	Teams      []string
	Statuses   []string
}

func TeamChange(t model.Team) Change {
	return Change{Collection: model.Teams, ID: t.ID}
}

// PlayerChange recebe o estado anterior e o novo (qualquer um pode ser nil)
func PlayerChange(before, after *model.Player) Change {
	c := Change{Collection: model.Players}
	for _, p := range []*model.Player{before, after} {
		if p == nil {
			continue
		}
		c.ID = p.ID
		c.Teams = append(c.Teams, p.TeamID)
	}
	return c
}

// MatchChange recebe o estado anterior e o novo (qualquer um pode ser nil)
func MatchChange(before, after *model.Match) Change {
	c := Change{Collection: model.Matches}
	for _, m := range []*model.Match{before, after} {
		if m == nil {
			continue
		}
		c.ID = m.ID
		c.Teams = append(c.Teams, m.HomeTeamID, m.AwayTeamID)
		c.Statuses = append(c.Statuses, m.Status)
	}
	return c
}

// RemovalChanges cobre o time apagado e tudo que caiu em cascata
func RemovalChanges(r model.TeamRemoval) []Change {
	out := []Change{TeamChange(r.Team)}
	for i := range r.Players {
		out = append(out, PlayerChange(&r.Players[i], nil))
	}
	for i := range r.Matches {
		out = append(out, MatchChange(&r.Matches[i], nil))
	}
	return out
}

type keyRule func(Change) []string

func byID(f func(string) string) keyRule {
	return func(c Change) []string { return []string{f(c.ID)} }
}

func fixed(key string) keyRule {
	return func(Change) []string { return []string{key} }
}

func eachTeam(f func(string) string) keyRule {
	return func(c Change) []string {
		out := make([]string, 0, len(c.Teams))
		for _, t := range c.Teams {
			out = append(out, f(t))
		}
		return out
	}
}

func eachStatus(f func(string) string) keyRule {
	return func(c Change) []string {
		out := make([]string, 0, len(c.Statuses))
		for _, s := range c.Statuses {
			out = append(out, f(s))
		}
		return out
	}
}

// dependencies: chaves que cada tipo de mutação invalida. Uma relação nova entra aqui.
var dependencies = map[model.Collection][]keyRule{
	model.Teams: {
		byID(TeamKey),
		fixed(TeamsAllKey),
	},
	model.Players: {
		byID(PlayerKey),
		fixed(PlayersAllKey),
		fixed(TeamsAllKey), // lista de times embute resumo dos jogadores
		eachTeam(PlayersByTeamKey),
		eachTeam(TeamKey),
	},
	model.Matches: {
		byID(MatchKey),
		fixed(MatchesAllKey),
		eachStatus(MatchesByStatusKey),
		eachTeam(TeamKey),
	},
}

// KeysFor devolve as chaves afetadas, sem repetição e em ordem determinística
func KeysFor(changes ...Change) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range changes {
		for _, rule := range dependencies[c.Collection] {
			for _, k := range rule(c) {
				if !seen[k] {
					seen[k] = true
					out = append(out, k)
				}
			}
		}
	}
	return out
}

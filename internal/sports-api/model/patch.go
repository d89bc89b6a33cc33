package model

import "time"

// Patches usam ponteiros: nil = campo não informado

type UserPatch struct {
	Email        *string
	PasswordHash *string
	Name         *string
}

func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Name != nil {
		u.Name = p.Name
	}
}

type TeamPatch struct {
	Name        *string `json:"name"`
	Country     *string `json:"country"`
	FoundedYear *int    `json:"foundedYear"`
	Stadium     *string `json:"stadium"`
}

func (p TeamPatch) Apply(t *Team) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Country != nil {
		t.Country = *p.Country
	}
	if p.FoundedYear != nil {
		t.FoundedYear = *p.FoundedYear
	}
	if p.Stadium != nil {
		t.Stadium = *p.Stadium
	}
}

type PlayerPatch struct {
	Name          *string  `json:"name"`
	Position      *string  `json:"position"`
	Age           *int     `json:"age"`
	Goals         *int     `json:"goals"`
	Assists       *int     `json:"assists"`
	MatchesPlayed *int     `json:"matchesPlayed"`
	Rating        *float64 `json:"rating"`
	TeamID        *string  `json:"teamId"`
}

func (p PlayerPatch) Apply(pl *Player) {
	if p.Name != nil {
		pl.Name = *p.Name
	}
	if p.Position != nil {
		pl.Position = *p.Position
	}
	if p.Age != nil {
		pl.Age = *p.Age
	}
	if p.Goals != nil {
		pl.Goals = *p.Goals
	}
	if p.Assists != nil {
		pl.Assists = *p.Assists
	}
	if p.MatchesPlayed != nil {
		pl.MatchesPlayed = *p.MatchesPlayed
	}
	if p.Rating != nil {
		r := *p.Rating
		pl.Rating = &r
	}
	if p.TeamID != nil {
		pl.TeamID = *p.TeamID
	}
}

// MatchPatch.Prediction só define; limpar a previsão não é suportado
type MatchPatch struct {
	HomeTeamID *string     `json:"homeTeamId"`
	AwayTeamID *string     `json:"awayTeamId"`
	Date       *time.Time  `json:"date"`
	Status     *string     `json:"status"`
	HomeScore  *int        `json:"homeScore"`
	AwayScore  *int        `json:"awayScore"`
	Prediction *Prediction `json:"prediction"`
}

func (p MatchPatch) Apply(m *Match) {
	if p.HomeTeamID != nil {
		m.HomeTeamID = *p.HomeTeamID
	}
	if p.AwayTeamID != nil {
		m.AwayTeamID = *p.AwayTeamID
	}
	if p.Date != nil {
		m.Date = p.Date.UTC()
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.HomeScore != nil {
		v := *p.HomeScore
		m.HomeScore = &v
	}
	if p.AwayScore != nil {
		v := *p.AwayScore
		m.AwayScore = &v
	}
	if p.Prediction != nil {
		pred := *p.Prediction
		m.Prediction = &pred
	}
}

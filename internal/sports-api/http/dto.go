package httpapi

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/jonboulle/clockwork"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

// Corpos das requisições. Campos opcionais são ponteiros (nil = não informado).

type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

type TeamRequest struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	FoundedYear int    `json:"foundedYear"`
	Stadium     string `json:"stadium"`
}

// teamValidator carrega o relógio para o limite superior de foundedYear
type teamValidator struct{ clock clockwork.Clock }

func (v teamValidator) create(r TeamRequest) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Country, validation.Required),
		validation.Field(&r.FoundedYear, validation.Required, validation.Min(1800), validation.Max(v.clock.Now().Year())),
		validation.Field(&r.Stadium, validation.Required),
	)
}

func (v teamValidator) update(p model.TeamPatch) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty),
		validation.Field(&p.Country, validation.NilOrNotEmpty),
		validation.Field(&p.FoundedYear, validation.NilOrNotEmpty, validation.Min(1800), validation.Max(v.clock.Now().Year())),
		validation.Field(&p.Stadium, validation.NilOrNotEmpty),
	)
}

func (r TeamRequest) Team() model.Team {
	return model.Team{Name: r.Name, Country: r.Country, FoundedYear: r.FoundedYear, Stadium: r.Stadium}
}

type PlayerRequest struct {
	Name          string   `json:"name"`
	Position      string   `json:"position"`
	Age           int      `json:"age"`
	TeamID        string   `json:"teamId"`
	Goals         *int     `json:"goals"`
	Assists       *int     `json:"assists"`
	MatchesPlayed *int     `json:"matchesPlayed"`
	Rating        *float64 `json:"rating"`
}

func (r PlayerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Position, validation.Required),
		validation.Field(&r.Age, validation.Required, validation.Min(16), validation.Max(50)),
		validation.Field(&r.TeamID, validation.Required, is.UUID),
		validation.Field(&r.Goals, validation.Min(0)),
		validation.Field(&r.Assists, validation.Min(0)),
		validation.Field(&r.MatchesPlayed, validation.Min(0)),
		validation.Field(&r.Rating, validation.Min(0.0), validation.Max(10.0)),
	)
}

func (r PlayerRequest) Player() model.Player {
	return model.Player{
		Name:          r.Name,
		Position:      r.Position,
		Age:           r.Age,
		TeamID:        r.TeamID,
		Goals:         deref(r.Goals),
		Assists:       deref(r.Assists),
		MatchesPlayed: deref(r.MatchesPlayed),
		Rating:        r.Rating,
	}
}

func validatePlayerPatch(p model.PlayerPatch) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty),
		validation.Field(&p.Position, validation.NilOrNotEmpty),
		validation.Field(&p.Age, validation.NilOrNotEmpty, validation.Min(16), validation.Max(50)),
		validation.Field(&p.TeamID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&p.Goals, validation.Min(0)),
		validation.Field(&p.Assists, validation.Min(0)),
		validation.Field(&p.MatchesPlayed, validation.Min(0)),
		validation.Field(&p.Rating, validation.Min(0.0), validation.Max(10.0)),
	)
}

var matchStatuses = []any{model.StatusScheduled, model.StatusLive, model.StatusFinished}

type MatchRequest struct {
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

func (r MatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HomeTeamID, validation.Required, is.UUID),
		validation.Field(&r.AwayTeamID, validation.Required, is.UUID),
		validation.Field(&r.Date, validation.Required, validation.Date(time.RFC3339)),
		validation.Field(&r.Status, validation.In(matchStatuses...)),
	)
}

func (r MatchRequest) Match() (model.Match, error) {
	d, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return model.Match{}, fmt.Errorf("date: %w", model.ErrValidation)
	}
	return model.Match{HomeTeamID: r.HomeTeamID, AwayTeamID: r.AwayTeamID, Date: d.UTC(), Status: r.Status}, nil
}

// MatchUpdateRequest não permite trocar os times da partida
type MatchUpdateRequest struct {
	Date      *string `json:"date"`
	Status    *string `json:"status"`
	HomeScore *int    `json:"homeScore"`
	AwayScore *int    `json:"awayScore"`
}

func (r MatchUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.NilOrNotEmpty, validation.Date(time.RFC3339)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(matchStatuses...)),
		validation.Field(&r.HomeScore, validation.Min(0)),
		validation.Field(&r.AwayScore, validation.Min(0)),
	)
}

func (r MatchUpdateRequest) Patch() (model.MatchPatch, error) {
	p := model.MatchPatch{Status: r.Status, HomeScore: r.HomeScore, AwayScore: r.AwayScore}
	if r.Date != nil {
		d, err := time.Parse(time.RFC3339, *r.Date)
		if err != nil {
			return model.MatchPatch{}, fmt.Errorf("date: %w", model.ErrValidation)
		}
		p.Date = &d
	}
	return p, nil
}

func deref(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

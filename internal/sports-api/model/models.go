package model

import "time"

// Status de uma partida
const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
)

// User é a conta usada na autenticação
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Name         *string `json:"name"`
	Timestamps
}

func (u User) EntityID() string { return u.ID }

func (u User) Fields() []Field {
	return []Field{
		{Name: "id", Type: TypeString, Value: u.ID},
		{Name: "email", Type: TypeString, Value: u.Email},
		{Name: "password", Type: TypeString, Value: u.PasswordHash},
		{Name: "name", Type: TypeString, Value: optString(u.Name)},
		{Name: "createdAt", Type: TypeTime, Value: u.CreatedAt},
		{Name: "updatedAt", Type: TypeTime, Value: u.UpdatedAt},
	}
}

// Team possui jogadores e é referenciado pelas partidas (mandante/visitante)
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	FoundedYear int    `json:"foundedYear"`
	Stadium     string `json:"stadium"`
	Timestamps
}

func (t Team) EntityID() string { return t.ID }

func (t Team) Fields() []Field {
	return []Field{
		{Name: "id", Type: TypeString, Value: t.ID},
		{Name: "name", Type: TypeString, Value: t.Name},
		{Name: "country", Type: TypeString, Value: t.Country},
		{Name: "foundedYear", Type: TypeInt, Value: t.FoundedYear},
		{Name: "stadium", Type: TypeString, Value: t.Stadium},
		{Name: "createdAt", Type: TypeTime, Value: t.CreatedAt},
		{Name: "updatedAt", Type: TypeTime, Value: t.UpdatedAt},
	}
}

// Player pertence a exatamente um Team (TeamID obrigatório)
type Player struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Position      string   `json:"position"`
	Age           int      `json:"age"`
	Goals         int      `json:"goals"`
	Assists       int      `json:"assists"`
	MatchesPlayed int      `json:"matchesPlayed"`
	Rating        *float64 `json:"rating"` // 0-10 ou ausente
	TeamID        string   `json:"teamId"`
	Timestamps
}

func (p Player) EntityID() string { return p.ID }

func (p Player) Fields() []Field {
	return []Field{
		{Name: "id", Type: TypeString, Value: p.ID},
		{Name: "name", Type: TypeString, Value: p.Name},
		{Name: "position", Type: TypeString, Value: p.Position},
		{Name: "age", Type: TypeInt, Value: p.Age},
		{Name: "goals", Type: TypeInt, Value: p.Goals},
		{Name: "assists", Type: TypeInt, Value: p.Assists},
		{Name: "matchesPlayed", Type: TypeInt, Value: p.MatchesPlayed},
		{Name: "rating", Type: TypeFloat, Value: optFloat(p.Rating)},
		{Name: "teamId", Type: TypeString, Value: p.TeamID},
		{Name: "createdAt", Type: TypeTime, Value: p.CreatedAt},
		{Name: "updatedAt", Type: TypeTime, Value: p.UpdatedAt},
	}
}

// Score é um placar previsto
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Prediction fica embutida na Match; as probabilidades não são normalizadas
type Prediction struct {
	HomeWinProbability float64 `json:"homeWinProbability"`
	AwayWinProbability float64 `json:"awayWinProbability"`
	DrawProbability    float64 `json:"drawProbability"`
	PredictedScore     *Score  `json:"predictedScore,omitempty"`
	Confidence         float64 `json:"confidence"`
}

// Map retorna a forma JSON-nativa da previsão
func (p Prediction) Map() map[string]any {
	m := map[string]any{
		"homeWinProbability": p.HomeWinProbability,
		"awayWinProbability": p.AwayWinProbability,
		"drawProbability":    p.DrawProbability,
		"confidence":         p.Confidence,
	}
	if p.PredictedScore != nil {
		m["predictedScore"] = map[string]any{
			"home": float64(p.PredictedScore.Home),
			"away": float64(p.PredictedScore.Away),
		}
	}
	return m
}

// Match referencia dois times distintos
type Match struct {
	ID         string      `json:"id"`
	HomeTeamID string      `json:"homeTeamId"`
	AwayTeamID string      `json:"awayTeamId"`
	Date       time.Time   `json:"date"`
	Status     string      `json:"status"`
	HomeScore  *int        `json:"homeScore"`
	AwayScore  *int        `json:"awayScore"`
	Prediction *Prediction `json:"prediction"`
	Timestamps
}

func (m Match) EntityID() string { return m.ID }

func (m Match) Fields() []Field {
	var pred any
	if m.Prediction != nil {
		pred = *m.Prediction
	}
	return []Field{
		{Name: "id", Type: TypeString, Value: m.ID},
		{Name: "homeTeamId", Type: TypeString, Value: m.HomeTeamID},
		{Name: "awayTeamId", Type: TypeString, Value: m.AwayTeamID},
		{Name: "date", Type: TypeTime, Value: m.Date},
		{Name: "status", Type: TypeString, Value: m.Status},
		{Name: "homeScore", Type: TypeInt, Value: optInt(m.HomeScore)},
		{Name: "awayScore", Type: TypeInt, Value: optInt(m.AwayScore)},
		{Name: "prediction", Type: TypeObject, Value: pred},
		{Name: "createdAt", Type: TypeTime, Value: m.CreatedAt},
		{Name: "updatedAt", Type: TypeTime, Value: m.UpdatedAt},
	}
}

// ValidStatus informa se s é um status de partida conhecido
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusLive, StatusFinished:
		return true
	}
	return false
}

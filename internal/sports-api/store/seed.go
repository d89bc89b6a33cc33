package store

import (
	"fmt"
	"time"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

// Seed carrega os dados de exemplo: dois times, um jogador em cada e uma partida agendada
func (s *Store) Seed() error {
	home, err := s.Insert(model.Teams, model.Team{Name: "Manchester United", Country: "England", FoundedYear: 1878, Stadium: "Old Trafford"})
	if err != nil {
		return fmt.Errorf("seed team: %w", err)
	}
	away, err := s.Insert(model.Teams, model.Team{Name: "Liverpool FC", Country: "England", FoundedYear: 1892, Stadium: "Anfield"})
	if err != nil {
		return fmt.Errorf("seed team: %w", err)
	}

	r1, r2 := 8.5, 7.8
	players := []model.Player{
		{Name: "John Doe", Position: "Forward", Age: 25, Goals: 15, Assists: 8, MatchesPlayed: 30, Rating: &r1, TeamID: home.EntityID()},
		{Name: "Jane Smith", Position: "Midfielder", Age: 23, Goals: 5, Assists: 12, MatchesPlayed: 28, Rating: &r2, TeamID: away.EntityID()},
	}
	for _, p := range players {
		if _, err := s.Insert(model.Players, p); err != nil {
			return fmt.Errorf("seed player: %w", err)
		}
	}

	_, err = s.Insert(model.Matches, model.Match{
		HomeTeamID: home.EntityID(),
		AwayTeamID: away.EntityID(),
		Date:       time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC),
		Status:     model.StatusScheduled,
		Prediction: &model.Prediction{
			HomeWinProbability: 0.45,
			AwayWinProbability: 0.35,
			DrawProbability:    0.20,
			PredictedScore:     &model.Score{Home: 2, Away: 1},
			Confidence:         0.75,
		},
	})
	if err != nil {
		return fmt.Errorf("seed match: %w", err)
	}
	return nil
}

package store

import "github.com/radieske/sports-data-api/internal/sports-api/model"

// detach copia os campos ponteiro para que quem chama nunca compartilhe memória
// com as linhas guardadas no store
func detach(e model.Entity) model.Entity {
	switch v := e.(type) {
	case model.User:
		v.Name = clonePtr(v.Name)
		return v
	case model.Player:
		v.Rating = clonePtr(v.Rating)
		return v
	case model.Match:
		v.HomeScore = clonePtr(v.HomeScore)
		v.AwayScore = clonePtr(v.AwayScore)
		if v.Prediction != nil {
			p := *v.Prediction
			p.PredictedScore = clonePtr(p.PredictedScore)
			v.Prediction = &p
		}
		return v
	}
	return e
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

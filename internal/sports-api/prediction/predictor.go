package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/radieske/sports-data-api/internal/sports-api/model"
)

const (
	SourceModel    = "model"
	SourceFallback = "fallback"

	systemPrompt = "You are a helpful sports analyst. Always return valid JSON."
)

var ErrNoJSON = errors.New("no json object in response")

// Completer é o backend de inferência (texto livre de resposta)
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Predictor gera previsões de resultado. Nunca retorna erro: qualquer falha vira Fallback.
type Predictor struct {
	completer Completer
	log       *zap.Logger
	OnResult  func(source string)
}

// New aceita completer nil (sem backend configurado)
func New(c Completer, log *zap.Logger) *Predictor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Predictor{completer: c, log: log}
}

// Fallback é a previsão heurística fixa
func Fallback() model.Prediction {
	return model.Prediction{
		HomeWinProbability: 0.35,
		AwayWinProbability: 0.35,
		DrawProbability:    0.30,
		PredictedScore:     &model.Score{Home: 1, Away: 1},
		Confidence:         0.5,
	}
}

func (p *Predictor) Predict(ctx context.Context, homeTeam, awayTeam string) model.Prediction {
	if p.completer == nil {
		p.record(SourceFallback)
		return Fallback()
	}

	text, err := p.completer.Complete(ctx, systemPrompt, Prompt(homeTeam, awayTeam))
	if err != nil {
		p.log.Warn("prediction backend failed, using fallback", zap.Error(err))
		p.record(SourceFallback)
		return Fallback()
	}

	pred, err := Parse(text)
	if err != nil {
		p.log.Warn("prediction response rejected, using fallback", zap.Error(err))
		p.record(SourceFallback)
		return Fallback()
	}

	p.record(SourceModel)
	return pred
}

func (p *Predictor) record(source string) {
	if p.OnResult != nil {
		p.OnResult(source)
	}
}

func Prompt(homeTeam, awayTeam string) string {
	return fmt.Sprintf(`You are a sports analyst. Predict the outcome of a match between %s (home) and %s (away).

Return a JSON object with this exact structure:
{
  "homeWinProbability": number (0-1),
  "awayWinProbability": number (0-1),
  "drawProbability": number (0-1),
  "predictedScore": { "home": number, "away": number },
  "confidence": number (0-1)
}`, homeTeam, awayTeam)
}

type rawPrediction struct {
	HomeWinProbability *float64     `json:"homeWinProbability"`
	AwayWinProbability *float64     `json:"awayWinProbability"`
	DrawProbability    *float64     `json:"drawProbability"`
	PredictedScore     *model.Score `json:"predictedScore"`
	Confidence         *float64     `json:"confidence"`
}

// Parse extrai o primeiro objeto JSON do texto e valida os intervalos
func Parse(text string) (model.Prediction, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return model.Prediction{}, ErrNoJSON
	}

	var raw rawPrediction
	if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&raw); err != nil {
		return model.Prediction{}, fmt.Errorf("decode prediction: %w", err)
	}

	err := validation.ValidateStruct(&raw,
		validation.Field(&raw.HomeWinProbability, validation.NotNil, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&raw.AwayWinProbability, validation.NotNil, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&raw.DrawProbability, validation.NotNil, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&raw.Confidence, validation.NotNil, validation.Min(0.0), validation.Max(1.0)),
	)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("invalid prediction: %w", err)
	}

	pred := model.Prediction{
		HomeWinProbability: *raw.HomeWinProbability,
		AwayWinProbability: *raw.AwayWinProbability,
		DrawProbability:    *raw.DrawProbability,
		Confidence:         *raw.Confidence,
	}
	if raw.PredictedScore != nil {
		if raw.PredictedScore.Home < 0 || raw.PredictedScore.Away < 0 {
			return model.Prediction{}, errors.New("invalid prediction: negative predicted score")
		}
		score := *raw.PredictedScore
		pred.PredictedScore = &score
	}
	return pred, nil
}

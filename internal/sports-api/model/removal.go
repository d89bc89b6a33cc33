package model

// TeamRemoval descreve o que foi apagado junto com o time (cascata)
type TeamRemoval struct {
	Team    Team
	Players []Player
	Matches []Match
}

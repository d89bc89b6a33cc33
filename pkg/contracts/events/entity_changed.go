package events

import "time"

// Ações de mutação
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Evento publicado no tópico "sports_entity_changes" e no canal Redis do WS
type EntityChanged struct {
	Kind    string    `json:"kind"`   // teams | players | matches
	Action  string    `json:"action"` // created | updated | deleted
	ID      string    `json:"id"`
	TeamIDs []string  `json:"teamIds,omitempty"` // times afetados (antes e depois)
	Payload any       `json:"payload,omitempty"` // estado novo; ausente em deleted
	Ts      time.Time `json:"ts"`
}

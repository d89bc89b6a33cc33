package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// ID: id de partida ou time, obrigatório em subscribe/unsubscribe
type ClientMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Update é o envelope enviado aos clientes inscritos
type Update struct {
	Type    string `json:"type"` // sempre "update"
	ID      string `json:"id"`   // id assinado que casou com o evento
	Payload any    `json:"payload"`
}

package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"

	"github.com/radieske/sports-data-api/pkg/contracts/events"
)

type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex // gorilla permite um único writer por conexão
}

func (c *client) write(b []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas por id de partida ou time
type Hub struct {
	upgrader websocket.Upgrader
	subs     *xsync.MapOf[string, *xsync.MapOf[*client, struct{}]]
	log      *zap.Logger
}

// NewHub cria o hub com a política de origem recebida (CORS)
func NewHub(allowOrigin func(r *http.Request) bool, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     xsync.NewMapOf[string, *xsync.MapOf[*client, struct{}]](),
		log:      log,
	}
}

// HandleWS atende uma conexão: subscribe/unsubscribe por id e ping/pong
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			if msg.ID != "" {
				h.subscribe(msg.ID, c)
			}
		case "unsubscribe":
			h.unsubscribe(msg.ID, c)
		case "ping":
			b, _ := json.Marshal(map[string]string{"type": "pong"})
			_ = c.write(b)
		}
	}

	// remove a conexão de todas as assinaturas ao desconectar
	var ids []string
	h.subs.Range(func(id string, set *xsync.MapOf[*client, struct{}]) bool {
		if _, ok := set.Load(c); ok {
			ids = append(ids, id)
		}
		return true
	})
	for _, id := range ids {
		h.unsubscribe(id, c)
	}
}

// subscribe e unsubscribe usam Compute para que criar e apagar o conjunto de um id
// seja atômico em relação a outras conexões
func (h *Hub) subscribe(id string, c *client) {
	h.subs.Compute(id, func(set *xsync.MapOf[*client, struct{}], loaded bool) (*xsync.MapOf[*client, struct{}], bool) {
		if !loaded {
			set = xsync.NewMapOf[*client, struct{}]()
		}
		set.Store(c, struct{}{})
		return set, false
	})
}

// unsubscribe apaga o conjunto do id quando fica vazio
func (h *Hub) unsubscribe(id string, c *client) {
	h.subs.Compute(id, func(set *xsync.MapOf[*client, struct{}], loaded bool) (*xsync.MapOf[*client, struct{}], bool) {
		if !loaded {
			return set, true
		}
		set.Delete(c)
		return set, set.Size() == 0
	})
}

// Topics informa quantos ids têm ao menos um assinante
func (h *Hub) Topics() int { return h.subs.Size() }

// Subscribers informa quantas conexões assinam o id
func (h *Hub) Subscribers(id string) int {
	if set, ok := h.subs.Load(id); ok {
		return set.Size()
	}
	return 0
}

// Broadcast envia o evento para quem assina o id da entidade ou um dos times afetados
func (h *Hub) Broadcast(e events.EntityChanged) {
	targets := append([]string{e.ID}, e.TeamIDs...)
	sent := map[*client]bool{}
	for _, id := range targets {
		set, ok := h.subs.Load(id)
		if !ok {
			continue
		}
		b, _ := json.Marshal(Update{Type: "update", ID: id, Payload: e})
		set.Range(func(c *client, _ struct{}) bool {
			if sent[c] {
				return true
			}
			sent[c] = true
			if err := c.write(b); err != nil {
				h.log.Debug("ws write failed", zap.Error(err))
			}
			return true
		})
	}
}

// Name e Publish permitem usar o hub como sink local quando não há Redis
func (h *Hub) Name() string { return "ws" }

func (h *Hub) Publish(_ context.Context, e events.EntityChanged) error {
	h.Broadcast(e)
	return nil
}

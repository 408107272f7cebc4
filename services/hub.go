package services

import (
	"fmt"
	"sync"

	"github.com/bellapacxx/bingo-hall/utils/logger"
)

// Hub fans events out to websocket clients grouped by topic. Each game has
// one topic; each user has a private one for targeted notifications.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*Client]struct{})}
}

func GameTopic(gameID uint) string { return fmt.Sprintf("game:%d", gameID) }
func UserTopic(userID uint) string { return fmt.Sprintf("user:%d", userID) }

func (h *Hub) Subscribe(topic string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.topics[topic]
	if !ok {
		set = make(map[*Client]struct{})
		h.topics[topic] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unsubscribe(topic string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.topics, topic)
	}
}

// Publish marshals the event once and hands it to every subscriber of the
// topic. A subscriber whose send buffer is full is dropped rather than
// allowed to stall the rest.
func (h *Hub) Publish(topic string, ev Event) {
	data, err := marshalEvent(ev)
	if err != nil {
		logger.Errorf("marshal %s event: %v", ev.eventType(), err)
		return
	}

	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.topics[topic]))
	for c := range h.topics[topic] {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	for _, c := range subscribers {
		if !c.enqueue(data) {
			logger.Warnf("dropping slow client on %s", topic)
			c.Close()
		}
	}
}

// ToGame implements Broadcaster for game-wide events.
func (h *Hub) ToGame(gameID uint, ev Event) {
	h.Publish(GameTopic(gameID), ev)
}

// ToUser implements Broadcaster for private notifications.
func (h *Hub) ToUser(userID uint, ev Event) {
	h.Publish(UserTopic(userID), ev)
}

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mvolkova/plateful/pkg/realtime"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	wsSnapshot   = 50
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The firehose is read-only and carries no credentials.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// firehoseInit is the first message on every firehose connection: a
// snapshot of the most recent recipes so clients can render immediately.
type firehoseInit struct {
	Type    string                 `json:"type"`
	Recipes []realtime.RecipeEvent `json:"recipes"`
	Count   int                    `json:"count"`
}

// HandleFirehoseWS streams recipe events over a WebSocket. The optional
// "since" query parameter (RFC 3339) limits the init snapshot to recipes
// created after that time.
func (s *Server) HandleFirehoseWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debugf("closing websocket: %v", err)
		}
	}()

	var since time.Time
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			logger.Debugf("ignoring invalid since parameter %q: %v", sinceStr, err)
		} else {
			since = parsed
		}
	}

	// Subscribe before snapshotting so nothing published in between is lost.
	id, events := s.hub.Register()
	defer s.hub.Unregister(id)

	snapshot, err := s.snapshotEvents(since)
	if err != nil {
		logger.Errorf("loading firehose snapshot: %v", err)
		return
	}

	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return
	}
	if err := conn.WriteJSON(firehoseInit{Type: "init", Recipes: snapshot, Count: len(snapshot)}); err != nil {
		logger.Debugf("writing init message: %v", err)
		return
	}

	// Reader goroutine surfaces client disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debugf("writing firehose event: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) snapshotEvents(since time.Time) ([]realtime.RecipeEvent, error) {
	recipes, err := s.store.ListRecipes(wsSnapshot)
	if err != nil {
		return nil, err
	}

	events := make([]realtime.RecipeEvent, 0, len(recipes))
	for _, r := range recipes {
		if !since.IsZero() && !r.CreatedAt.After(since) {
			continue
		}
		events = append(events, realtime.RecipeEvent{
			ID:        r.ID,
			Title:     r.Title,
			Author:    r.Author,
			Tags:      r.Tags,
			CreatedAt: r.CreatedAt,
		})
	}
	return events, nil
}

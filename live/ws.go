// Package live pushes "something changed" events to connected clients so every
// open calendar re-derives its view after a ledger or registry mutation.
package live

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; adjust for production if needed
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

type event struct {
	Type string `json:"type"`
	Date string `json:"date,omitempty"`
}

// HandleWS subscribes the caller to change events for one calendar date.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[date] = append(subscribers[date], conn)
	mu.Unlock()

	for {
		// This keeps the connection alive until the client disconnects
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	// Clean up on disconnect
	mu.Lock()
	conns := subscribers[date]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[date] = newList
	mu.Unlock()

	conn.Close()
}

// BroadcastUpdate tells every subscriber of the date to refetch.
func BroadcastUpdate(date string) {
	data, _ := json.Marshal(event{Type: "update", Date: date})
	broadcast(date, data)
}

func broadcast(key string, val []byte) {
	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[key]
	newList := conns[:0]

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}

	subscribers[key] = newList
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"thermalcam/internal/logger"
	"thermalcam/internal/pipeline"
	ws "thermalcam/internal/services/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveWebsocketHandler registers a dashboard client with the hub; the
// thermal pipeline pushes a reading on every successful sample.
func LiveWebsocketHandler(hub *ws.HubService, thermal *pipeline.Thermal, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		thermal.EnsureStarted()

		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		defer connection.Close()

		hub.Register(connection)
		defer hub.Unregister(connection)

		for {
			_, _, err := connection.ReadMessage()
			if err != nil {
				break
			}
		}
	}
}

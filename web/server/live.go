package server

import (
	"encoding/json"
	"net/http"
	"time"

	notify "github.com/bitly/go-notify"
	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"

	"github.com/btbonval/raymarch/internal/logging"
	"github.com/btbonval/raymarch/pkg/scene"
)

// liveMessage is the envelope for websocket payloads
type liveMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type wsIncoming struct {
	messageType int
	payload     []byte
	err         error
}

// handleLive upgrades to a websocket and streams sweep frames. Each
// connection runs its own sweeper loop; frames travel through the notify
// bus keyed by a per-connection session id, keeping the producer loop
// decoupled from the socket writer.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	sc := scene.Create(sceneParam(values))
	if sc == nil {
		http.Error(w, "unknown scene", http.StatusBadRequest)
		return
	}

	fps, err := parseIntParam(values, "fps", 20, 1, 60)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sweeper, err := scene.NewSweeper(sc, scene.DefaultSweeperConfig())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	sessionKey := "march:frame:" + uuid.NewV4().String()
	frames := make(chan interface{})
	notify.Start(sessionKey, frames)
	defer notify.Stop(sessionKey, frames)

	sceneData, err := json.Marshal(sc)
	if err != nil {
		s.logger.Error("could not encode scene", logging.Error(err))
		return
	}
	if err := conn.WriteJSON(liveMessage{Type: "init", Data: sceneData}); err != nil {
		s.logger.Warn("could not send init message", logging.Error(err))
		return
	}

	done := make(chan struct{})
	defer close(done)
	go s.runSweep(sweeper, sessionKey, fps, done)

	// Read loop; mandatory to notice when the socket is closed client side
	incoming := make(chan wsIncoming)
	go func(client *websocket.Conn, ch chan<- wsIncoming) {
		for {
			messageType, payload, err := client.ReadMessage()
			ch <- wsIncoming{messageType, payload, err}
			if err != nil {
				return
			}
		}
	}(conn, incoming)

	logger := s.logger.With(logging.String("scene", sc.Name), logging.String("session", sessionKey))
	logger.Info("live sweep started", logging.Int("fps", fps))

	for {
		select {
		case msg := <-incoming:
			if msg.err != nil {
				logger.Info("client disconnected")
				return
			}
		case frame := <-frames:
			frameString, ok := frame.(string)
			if !ok {
				logger.Error("unexpected frame payload type")
				return
			}
			message := liveMessage{Type: "frame", Data: json.RawMessage(frameString)}
			if err := conn.WriteJSON(message); err != nil {
				logger.Warn("could not write frame", logging.Error(err))
				return
			}
		}
	}
}

// runSweep advances the sweeper at the requested cadence and posts each
// frame on the notify bus until done closes
func (s *Server) runSweep(sweeper *scene.Sweeper, sessionKey string, fps int, done <-chan struct{}) {
	interval := time.Second / time.Duration(fps)
	dt := interval.Seconds()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frame, err := sweeper.Advance(dt)
			if err != nil {
				s.logger.Error("sweep march failed", logging.Error(err))
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				s.logger.Error("could not encode frame", logging.Error(err))
				return
			}
			notify.PostTimeout(sessionKey, string(data), time.Millisecond)
		}
	}
}

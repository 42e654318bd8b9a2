package api

import (
	"fmt"
	"net/http"
	"time"

	"code.cryptopower.dev/group/govdash/libwallet"
	"code.cryptopower.dev/group/govdash/listeners"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// streamMessage is one frame of the view-model stream. View is set for
// "view" frames, ProposalID for lifecycle events.
type streamMessage struct {
	Type       string               `json:"type"`
	View       *libwallet.ViewModel `json:"view,omitempty"`
	ProposalID string               `json:"proposalId,omitempty"`
}

// StreamHandler upgrades the request to a websocket and pushes the current
// view model followed by every published update until the client leaves or
// the server stops.
func (s *Server) StreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debugf("Stream upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id := fmt.Sprintf("api-stream-%d", s.streamID.Add(1))
	listener := listeners.NewProposalNotificationListener()
	if err := s.gov.AddNotificationListener(listener, id); err != nil {
		log.Errorf("Unable to register stream listener %s: %v", id, err)
		return
	}
	defer s.gov.RemoveNotificationListener(id)
	log.Debugf("Stream %s opened from %s", id, r.RemoteAddr)

	// The read side only services control frames and detects a closed peer.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeFrame(conn, &streamMessage{Type: listeners.Synced.String(), View: s.gov.ViewModel()}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case n := <-listener.ProposalNotifChan:
			msg := &streamMessage{Type: n.ProposalStatus.String()}
			if n.ProposalStatus == listeners.Synced {
				msg.View = n.ViewModel
			} else {
				msg.ProposalID = n.Proposal.IDString()
			}
			if err := writeFrame(conn, msg); err != nil {
				log.Debugf("Stream %s closed: %v", id, err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			log.Debugf("Stream %s closed by peer", id)
			return

		case <-s.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, msg *streamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

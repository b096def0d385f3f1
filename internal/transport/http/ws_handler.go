package http

import (
	"encoding/json"
	"log"
	"net/http"

	"community-hub/internal/realtime"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	PostID string `json:"postId"`
}

type commentPayload struct {
	PostID   string `json:"postId"`
	UserName string `json:"userName"`
	Text     string `json:"text"`
}

func postRoom(postID string) string {
	return "post_" + postID
}

// handleWS upgrades the connection and wires it into the hub: global
// leaderboard signals plus any post rooms the client joins. Comments are
// persisted first and broadcast to the room only after the write succeeds.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	client := s.hub.Register()
	defer s.hub.Unregister(client)

	// Direct replies (errors, acks) bypass the hub but share the single
	// writer goroutine so the connection never sees concurrent writes.
	direct := make(chan realtime.Message, 4)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for {
			select {
			case msg, ok := <-client.Receive():
				if !ok {
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case msg := <-direct:
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			}
		}
	}()

	reply := func(msg realtime.Message) {
		select {
		case direct <- msg:
		default:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "join":
			var payload joinPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.PostID == "" {
				reply(realtime.Message{Type: "error", Payload: map[string]string{"message": "invalid join payload"}})
				continue
			}
			s.hub.Join(client, postRoom(payload.PostID))
		case "comment":
			var payload commentPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply(realtime.Message{Type: "error", Payload: map[string]string{"message": "invalid comment payload"}})
				continue
			}
			comment, err := s.posts.AddComment(r.Context(), payload.PostID, payload.UserName, payload.Text)
			if err != nil {
				reply(realtime.Message{Type: "error", Payload: map[string]string{"message": err.Error()}})
				continue
			}
			s.hub.BroadcastRoom(postRoom(comment.PostID), realtime.Message{Type: "comment", Payload: comment})
		default:
			reply(realtime.Message{Type: "error", Payload: map[string]string{"message": "unsupported message type"}})
		}
	}

	s.hub.Unregister(client)
	<-writerDone
}

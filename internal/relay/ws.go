package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"

	ctxengine "github.com/tardislabs/tardis/internal/context"
	"github.com/tardislabs/tardis/internal/memory"
	"github.com/tardislabs/tardis/internal/session"
)

// wsInbound is one message from a WebSocket chat client.
type wsInbound struct {
	Input        string `json:"input"`
	Truthfulness *int   `json:"truthfulness,omitempty"`
	Levity       *int   `json:"levity,omitempty"`
	Reset        bool   `json:"reset,omitempty"`
}

// wsOutbound is one reply to a WebSocket chat client.
type wsOutbound struct {
	Reply string `json:"reply"`
	Local bool   `json:"local,omitempty"`
	Error bool   `json:"error,omitempty"`
}

// handleWS runs a server-side conversation per connection: the browser
// stays a dumb terminal while history, trimming, and summary memory live
// here. Session state is connection-scoped and discarded on close.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.wsOriginPatterns(),
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close") //nolint:errcheck // best-effort close

	ctrl := session.New(s.provider, memory.NewInMemoryStore(), s.sessionCfg, s.logger)
	defer ctrl.Close()

	persona := ctxengine.Persona{Truthfulness: 70, Levity: 40}

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var in wsInbound
		if err := json.Unmarshal(data, &in); err != nil {
			s.logger.Warn("invalid websocket message", "error", err)
			continue
		}

		if in.Truthfulness != nil {
			persona.Truthfulness = *in.Truthfulness
		}
		if in.Levity != nil {
			persona.Levity = *in.Levity
		}
		ctrl.SetPersona(persona)

		if in.Reset {
			if err := ctrl.Reset(); err != nil {
				s.logger.Warn("session reset failed", "error", err)
			}
			s.wsSend(ctx, conn, wsOutbound{Reply: "Conversation cleared."})
			continue
		}

		res, err := ctrl.Submit(ctx, in.Input)
		if err != nil {
			if errors.Is(err, session.ErrEmptyInput) {
				continue
			}
			s.wsSend(ctx, conn, wsOutbound{Reply: "Internal error.", Error: true})
			continue
		}

		s.wsSend(ctx, conn, wsOutbound{Reply: res.Reply, Local: res.Local, Error: res.Error})
	}
}

func (s *Server) wsSend(ctx context.Context, conn *websocket.Conn, out wsOutbound) {
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		s.logger.Debug("websocket write failed", "error", err)
	}
}

// wsOriginPatterns maps the CORS config onto websocket origin checking.
func (s *Server) wsOriginPatterns() []string {
	if s.config.AllowedOrigin == "*" {
		return []string{"*"}
	}
	return []string{s.config.AllowedOrigin}
}

package realtime

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"

	"github.com/elitehr/elite-time/internal/auth"
	"github.com/elitehr/elite-time/internal/session"
)

type SessionResolver interface {
	ResolveSession(token string) (*auth.User, *session.Session, error)
}

// NewSocketHandler serves the sockjs endpoint at prefix. Connections
// authenticate with the session cookie or a bearer token before the
// client is registered with the hub.
func NewSocketHandler(prefix string, hub *Hub, resolver SessionResolver, logger *slog.Logger) http.Handler {
	return sockjs.NewHandler(prefix, sockjs.DefaultOptions, func(sess sockjs.Session) {
		token := sessionToken(sess.Request())
		if token == "" {
			_ = sess.Close(4001, "missing session")
			return
		}
		user, _, err := resolver.ResolveSession(token)
		if err != nil {
			_ = sess.Close(4002, "invalid session")
			return
		}

		client := &Client{
			ID:     uuid.NewString(),
			UserID: user.ID,
			Send:   make(chan []byte, 16),
		}
		hub.Register(client)
		defer hub.Unregister(client)

		logger.Debug("realtime client connected", "client_id", client.ID, "user_id", user.ID)

		go func() {
			for msg := range client.Send {
				_ = sess.Send(string(msg))
			}
		}()

		for {
			msg, err := sess.Recv()
			if err != nil {
				return
			}
			parsed, ok := ParseSubscribe([]byte(msg))
			if !ok {
				continue
			}
			if parsed.Action == "unsubscribe" {
				hub.SetTopics(client, nil)
			} else {
				hub.SetTopics(client, parsed.Topics)
			}
		}
	})
}

func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

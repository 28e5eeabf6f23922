package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/yoursneaker/storefront/pkg/httpx"
	"github.com/yoursneaker/storefront/pkg/logger"
)

// SessionName is the cookie that carries the storefront session.
const SessionName = "yoursneaker_session"

// SessionCustomerKey is the session value holding the customer ID. It is
// written by the identity service at login.
const SessionCustomerKey = "customer_id"

// RequireAuth rejects requests without a session that names a customer and
// otherwise puts the customer ID in the request context.
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			customerID, ok := customerFromSession(store, r, log)
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCustomerID(r.Context(), customerID)))
		})
	}
}

func customerFromSession(store sessions.Store, r *http.Request, log logger.Logger) (uuid.UUID, bool) {
	session, err := store.Get(r, SessionName)
	if err != nil {
		log.WarnContext(r.Context(), "unreadable session", "error", err)
		return uuid.Nil, false
	}

	raw, _ := session.Values[SessionCustomerKey].(string)
	if raw == "" {
		log.DebugContext(r.Context(), "session has no customer")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		log.WarnContext(r.Context(), "malformed customer id in session", "customer_id", raw)
		return uuid.Nil, false
	}
	return id, true
}

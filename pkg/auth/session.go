// Package auth reads the customer identity from the storefront session.
//
// Sessions live in Redis. The cookie only carries the session ID, signed with
// SESSION_AUTH_KEY (32 or 64 bytes) and encrypted with SESSION_ENCRYPTION_KEY
// (16, 24 or 32 bytes). Generate keys with:
//
//	openssl rand -base64 32
package auth

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	redisSessionPrefix = "storefront:session:"
	// Carts outlive a browser tab; keep the customer signed in for 30 days.
	sessionMaxAge = 30 * 24 * 60 * 60
)

// RedisStore implements sessions.Store with values gob-encoded in Redis
// under "storefront:session:<id>".
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options sessions.Options
}

var _ sessions.Store = (*RedisStore)(nil)

// NewSessionStore returns a RedisStore. secure marks the cookie HTTPS-only.
func NewSessionStore(client *redis.Client, authKey, encryptionKey []byte, secure bool) *RedisStore {
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: sessions.Options{
			Path:     "/",
			MaxAge:   sessionMaxAge,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the request-scoped session named name.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie. A missing,
// undecodable or expired session yields a fresh one without error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := s.options
	session.Options = &opts
	session.IsNew = true

	id, ok := s.sessionID(r, name)
	if !ok {
		return session, nil
	}

	values, err := s.load(r.Context(), id)
	if err != nil {
		return session, nil
	}
	session.ID = id
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save writes the session to Redis and refreshes the cookie. A negative
// MaxAge deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), redisSessionPrefix+session.ID).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}
	if err := s.store(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *RedisStore) sessionID(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return "", false
	}
	return id, id != ""
}

func (s *RedisStore) store(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, redisSessionPrefix+session.ID, buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string) (map[any]any, error) {
	raw, err := s.client.Get(ctx, redisSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session %s expired", id)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	values := make(map[any]any)
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode session values: %w", err)
	}
	return values, nil
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}

package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	sessionCookieName = "PAWBOX_SESSION"
	sessionMaxAge     = 30 * 24 * time.Hour
)

// SessionData is the signed cookie payload. It carries no selection or
// payment state: only the language choice and the CSRF token.
type SessionData struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	dirty     bool
}

// SessionConfig configures cookie signing.
type SessionConfig struct {
	SigningKey string
	Secure     bool
}

type sessionCodec struct {
	key    []byte
	secure bool
}

// Session loads or initializes a session and stores it in request context.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	codec := &sessionCodec{key: []byte(cfg.SigningKey), secure: cfg.Secure}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromCookie := codec.read(r)
			if sd.ID == "" {
				sd.ID = randID()
				sd.CreatedAt = time.Now().UTC()
				sd.UpdatedAt = sd.CreatedAt
				sd.CSRFToken = newCSRFToken()
				sd.dirty = true
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sd)
			ctx = context.WithValue(ctx, ctxKeySecure, cfg.Secure)

			rw := NewResponseRecorder(w)
			// the cookie has to go out with the header
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromCookie {
					codec.write(w, sd)
				}
			})
			next.ServeHTTP(rw, r.WithContext(ctx))
			if !rw.Written() && (sd.dirty || !fromCookie) {
				codec.write(w, sd)
			}
		})
	}
}

func secureCookies(r *http.Request) bool {
	v, _ := r.Context().Value(ctxKeySecure).(bool)
	return v
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

func (c *sessionCodec) read(r *http.Request) (*SessionData, bool) {
	ck, err := r.Cookie(sessionCookieName)
	if err != nil || ck.Value == "" {
		return &SessionData{}, false
	}
	parts := strings.Split(ck.Value, ".")
	if len(parts) != 2 {
		return &SessionData{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return &SessionData{}, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return &SessionData{}, false
	}
	if !hmac.Equal(sig, c.sign(payload)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (c *sessionCodec) write(w http.ResponseWriter, sd *SessionData) {
	b, _ := json.Marshal(sd)
	val := base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(c.sign(b))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    val,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionMaxAge),
	})
}

func (c *sessionCodec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

func randID() string {
	return ulid.Make().String()
}

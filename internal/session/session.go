package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/platescout/platescout/pkg/config"
)

// CookieName is the name of the session cookie
const CookieName = "platescout_session"

// Session is the per-request session state carried in a signed cookie.
// UserID is the logged-in account, empty for anonymous visitors. Search
// remembers the catalog query string so detail pages can link back to
// the filtered listing.
type Session struct {
	UserID string
	Search string
}

// LoggedIn reports whether the session belongs to an authenticated user
func (s *Session) LoggedIn() bool {
	return s.UserID != ""
}

// Claims is the JWT payload stored in the session cookie
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid,omitempty"`
	Search string `json:"search,omitempty"`
}

// Manager signs and verifies session cookies
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager from configuration
func NewManager(cfg *config.SessionConfig) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}
}

// Load reads the session from the request cookie. A missing, expired, or
// tampered cookie yields an empty anonymous session, never an error.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return &Session{}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return &Session{}
	}

	return &Session{
		UserID: claims.UserID,
		Search: claims.Search,
	}
}

// Save writes the session back to the response as a signed cookie
func (m *Manager) Save(w http.ResponseWriter, sess *Session) error {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: sess.UserID,
		Search: sess.Search,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Package sessions binds the expiring session store to request
// authentication: it turns a signed session cookie back into a verified
// user identity before any handler logic runs.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"homecloud/internal/common"
	"homecloud/internal/logging"
	"homecloud/internal/server/models"
	"homecloud/internal/ttlmap"
)

// CookieName is the HTTP cookie carrying the signed session token.
const CookieName = "session"

// Record is what a session token resolves to. The creation time lives in
// the expiring store holding the record.
type Record struct {
	UserEmail string
}

// Store holds active sessions keyed by token.
type Store = ttlmap.Store[uuid.UUID, Record]

// UserResolver re-resolves a session's identity against the user
// collaborator. Absence must be reported with common.ErrorNotFound so that
// deleting a user implicitly invalidates its sessions.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type ctxKey string

const userKey ctxKey = "homecloud.user"

// UserFromContext returns the authenticated user stored by the guard, or
// nil for unauthenticated requests.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Guard authenticates requests. It is a precondition gate: resolution
// happens before the wrapped handler runs, and any failure short-circuits
// with an unauthenticated result rather than a server error.
type Guard struct {
	store  *Store
	users  UserResolver
	key    []byte
	logger logging.Logger
}

func NewGuard(store *Store, users UserResolver, signingKey []byte, logger logging.Logger) *Guard {
	return &Guard{
		store:  store,
		users:  users,
		key:    signingKey,
		logger: logger.With("module", "sessions"),
	}
}

// Authenticate resolves a raw cookie value into a verified user.
func (g *Guard) Authenticate(ctx context.Context, cookieValue string) (*models.User, error) {
	token, err := ParseCookieValue(g.key, cookieValue)
	if err != nil {
		return nil, common.ErrorUnauthenticated
	}

	record, ok := g.store.Get(token)
	if !ok {
		return nil, common.ErrorUnauthenticated
	}

	user, err := g.users.GetByEmail(ctx, record.UserEmail)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// The account is gone; its sessions die with it.
			return nil, common.ErrorUnauthenticated
		}
		g.logger.Error(ctx, "resolving session identity", "error", err.Error())
		return nil, fmt.Errorf("resolving session identity: %w", err)
	}

	return user, nil
}

// Middleware wraps next with the authentication gate. On success the user
// is placed in the request context; otherwise the request is rejected by
// onReject without reaching next.
func (g *Guard) Middleware(onReject func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				onReject(w, r, common.ErrorUnauthenticated)
				return
			}

			user, err := g.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				onReject(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// Package identity validates bearer credentials against the external
// identity provider. Verification either yields a subject id or
// unauthenticated; there is no partially-trusted state.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/milkyai/milky-relay/internal/store/redisstore"
)

// ErrUnauthenticated is the only failure callers see; the underlying
// reason is logged, never surfaced.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Identity is the verified principal for a request.
type Identity struct {
	SubjectID string
}

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// TokenVerifier verifies RS256 ID tokens issued by the configured
// identity project and caches successes per session so repeated requests
// skip the signature check.
type TokenVerifier struct {
	projectID string
	issuer    string
	certs     *certSource
	cache     *redisstore.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// New returns a verifier, or nil when no identity project is configured.
// A nil verifier disables every authenticated route with a clear error
// instead of crashing.
func New(projectID, certsURL string, cache *redisstore.Store, cacheTTL time.Duration, logger *zap.Logger) *TokenVerifier {
	if projectID == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenVerifier{
		projectID: projectID,
		issuer:    fmt.Sprintf("https://securetoken.google.com/%s", projectID),
		certs:     newCertSource(certsURL),
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (v *TokenVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthenticated
	}

	key := sessionKey(token)
	if v.cache != nil {
		if sub, err := v.cache.GetIdentity(ctx, key); err == nil && sub != "" {
			return Identity{SubjectID: sub}, nil
		} else if err != nil && err != redis.Nil {
			v.logger.Warn("identity cache read failed", zap.Error(err))
		}
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, v.keyFor,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Info("token verification failed", zap.Error(err))
		return Identity{}, ErrUnauthenticated
	}
	if claims.Subject == "" {
		return Identity{}, ErrUnauthenticated
	}

	if v.cache != nil {
		if err := v.cache.SetIdentity(ctx, key, claims.Subject, v.cacheTTL); err != nil {
			v.logger.Warn("identity cache write failed", zap.Error(err))
		}
	}
	return Identity{SubjectID: claims.Subject}, nil
}

func (v *TokenVerifier) keyFor(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("token missing kid header")
	}
	return v.certs.Key(context.Background(), kid)
}

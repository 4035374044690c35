package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/exam-sarathi/learning-service/internal/config"
)

// ContextUserIDKey is where the authenticated user's id is stored on the
// gin context. Everything below the handler layer receives the id as an
// explicit parameter; only this middleware and the handlers touch the key.
const ContextUserIDKey = "user_id"

// Authenticator verifies bearer tokens and resolves them to a user id.
type Authenticator interface {
	UserIDFromToken(token string) (string, error)
}

type casdoorAuthenticator struct {
	client *casdoorsdk.Client
}

// NewCasdoorAuthenticator builds a Casdoor-backed token verifier.
func NewCasdoorAuthenticator(cfg *config.Config) Authenticator {
	client := casdoorsdk.NewClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
	return &casdoorAuthenticator{client: client}
}

func (a *casdoorAuthenticator) UserIDFromToken(token string) (string, error) {
	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		return "", err
	}
	return claims.User.Id, nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the resolved user id on the context.
func AuthMiddleware(auth Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "missing bearer token",
			})
			return
		}

		userID, err := auth.UserIDFromToken(token)
		if err != nil || userID == "" {
			logger.Warn("token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid token",
			})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// StaticAuthenticator trusts the token as the user id verbatim. Used in
// development and in handler tests; never registered in production wiring.
type StaticAuthenticator struct{}

func (StaticAuthenticator) UserIDFromToken(token string) (string, error) {
	return token, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

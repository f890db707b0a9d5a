package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediadrop/mediadrop/pkg/logging"
)

const scheme = "Bearer "

// Gate validates the single shared bearer credential.
type Gate struct {
	secret string
	logger *logging.Logger
}

// NewGate returns a credential gate for the configured secret.
func NewGate(secret string, logger *logging.Logger) *Gate {
	return &Gate{secret: secret, logger: logger}
}

// Configured reports whether a secret is set at all.
func (g *Gate) Configured() bool {
	return g.secret != ""
}

// Authorized reports whether the Authorization header carries exactly
// the bearer scheme followed by the configured secret. No trimming, no
// case folding.
func (g *Gate) Authorized(header string) bool {
	return g.Configured() && header == scheme+g.secret
}

// Middleware enforces the gate on a gin route. An unset secret is a
// server misconfiguration, never open access: every request is rejected
// with a 500 distinct from the 401 an invalid credential gets.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Configured() {
			g.logger.Error("upload secret is not configured, rejecting request", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"error": "Server misconfigured: no upload secret set"})
			return
		}
		if !g.Authorized(c.GetHeader("Authorization")) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"hallbook/internal/shared/config"
	"hallbook/internal/shared/utils/response"
	"hallbook/internal/users"
	"hallbook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const sessionKey = "session"

var (
	errInvalidToken = errors.New("invalid or expired token")
	errTokenType    = errors.New("invalid token type")
)

// Session is the authenticated caller of the current request.
type Session struct {
	UserID    string
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (s *Session) HasRole(roles ...string) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// RevocationChecker reports whether a token id was signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// CurrentSession returns the session stored by the auth middleware.
func CurrentSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok
}

// SetSession stores s on the context; used by the middleware and tests.
func SetSession(c *gin.Context, s *Session) {
	c.Set(sessionKey, s)
	c.Set("user_id", s.UserID)
	c.Set("user_email", s.Email)
	c.Set("user_role", s.Role)
}

// JWTAuthWithConfig requires a valid, unrevoked access token in the
// Authorization header.
func JWTAuthWithConfig(cfg *config.Config, revoked RevocationChecker) gin.HandlerFunc {
	return authenticate(cfg, revoked, false)
}

// StreamAuthWithConfig also accepts ?access_token= for EventSource clients,
// which cannot set headers.
func StreamAuthWithConfig(cfg *config.Config, revoked RevocationChecker) gin.HandlerFunc {
	return authenticate(cfg, revoked, true)
}

func authenticate(cfg *config.Config, revoked RevocationChecker, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, msg := bearerToken(c)
		if tokenString == "" && allowQuery {
			tokenString, msg = c.Query("access_token"), ""
			if tokenString == "" {
				msg = "Authorization header is required"
			}
		}
		if tokenString == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, msg, nil, nil)
			c.Abort()
			return
		}

		session, err := ParseAccessToken(cfg.JWT.Secret, tokenString)
		if err != nil {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			c.Abort()
			return
		}

		if revoked != nil && session.TokenID != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), session.TokenID)
			if err != nil {
				logger.GetDefault().ErrorWithContext(c.Request.Context(), "Token revocation lookup failed", err, nil)
			}
			if isRevoked {
				response.RespondJSON(c, "error", http.StatusUnauthorized, "token has been revoked", nil, nil)
				c.Abort()
				return
			}
		}

		SetSession(c, session)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "Authorization header is required"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "authorization header format must be Bearer {token}"
	}
	return parts[1], ""
}

// ParseAccessToken validates an HS256 access token and builds its Session.
func ParseAccessToken(secret, tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, errTokenType
	}

	session := &Session{}
	session.UserID, _ = claims["user_id"].(string)
	session.Email, _ = claims["email"].(string)
	session.Role, _ = claims["role"].(string)
	session.TokenID, _ = claims["jti"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if session.UserID == "" {
		return nil, errInvalidToken
	}
	return session, nil
}

// RequireRoles middleware checks if the session has any of the roles
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		if !session.HasRole(requiredRoles...) {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireOwnerOrAdmin lets through hall owners and admins.
func RequireOwnerOrAdmin() gin.HandlerFunc {
	return RequireRoles(string(users.RoleHallOwner), string(users.RoleAdmin))
}

// OptionalAuthWithConfig validates a token if present but doesn't require it
func OptionalAuthWithConfig(cfg *config.Config, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		session, err := ParseAccessToken(cfg.JWT.Secret, tokenString)
		if err != nil {
			c.Next()
			return
		}
		if revoked != nil && session.TokenID != "" {
			if isRevoked, _ := revoked.IsRevoked(c.Request.Context(), session.TokenID); isRevoked {
				c.Next()
				return
			}
		}

		SetSession(c, session)
		c.Next()
	}
}

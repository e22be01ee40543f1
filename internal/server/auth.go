package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Role orders callers by privilege. A route is open to every role at or above
// the one it requires.
type Role int

const (
	Guest Role = iota
	User
	Admin
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case User:
		return "user"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole accepts guest, user or admin in any case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "guest":
		return Guest, nil
	case "user":
		return User, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("invalid role %q (want guest, user or admin)", s)
	}
}

const (
	roleKey        = "role"
	credentialsKey = "credentials"
	tokenHeader    = "X-Auth-Token"
)

// requestToken reads "Authorization: Bearer <token>", then X-Auth-Token.
func requestToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.GetHeader(tokenHeader))
}

// Authenticate resolves the caller's role from its token. Missing and unknown
// tokens both resolve to Guest.
func Authenticate(tokens map[string]Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c)
		role := Guest
		if r, ok := tokens[token]; ok && token != "" {
			role = r
		}
		c.Set(roleKey, role)
		c.Set(credentialsKey, token != "")
		c.Next()
	}
}

// RoleOf returns the role Authenticate stored on c.
func RoleOf(c *gin.Context) Role {
	if v, ok := c.Get(roleKey); ok {
		if r, ok := v.(Role); ok {
			return r
		}
	}
	return Guest
}

// RequireRole aborts requests whose role is below required: 401 when no
// credentials were sent, 403 otherwise.
func RequireRole(required Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleOf(c) >= required {
			c.Next()
			return
		}
		if !c.GetBool(credentialsKey) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("requires %s role", required)})
	}
}

package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/util"
)

func unauthorized(c *gin.Context, message string) {
	response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, message)
	c.Abort()
}

// Auth returns a middleware that validates HS256 bearer tokens and stores the
// acting identity on the context
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		// "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid token claims")
			return
		}

		identity, err := identityFromClaims(claims)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		util.SetIdentity(c, identity)
		c.Next()
	}
}

func identityFromClaims(claims jwt.MapClaims) (domain.Identity, error) {
	var userIDStr string
	if uid, ok := claims["user_id"].(string); ok {
		userIDStr = uid
	} else if sub, ok := claims["sub"].(string); ok {
		userIDStr = sub
	} else if uid, ok := claims["uid"].(string); ok {
		userIDStr = uid
	} else {
		return domain.Identity{}, errors.New("User ID not found in token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil || userID == uuid.Nil {
		return domain.Identity{}, errors.New("Invalid user ID format")
	}

	identity := domain.Identity{UserID: userID, Role: domain.RoleUser}
	if raw, ok := claims["role"].(string); ok && raw != "" {
		role, err := domain.ParseRole(strings.ToLower(raw))
		if err != nil {
			return domain.Identity{}, errors.New("Invalid role in token")
		}
		identity.Role = role
	}

	switch v := claims["barangay_id"].(type) {
	case nil:
	case float64:
		if v < 1 || v != float64(uint(v)) {
			return domain.Identity{}, errors.New("Invalid barangay in token")
		}
		id := uint(v)
		identity.BarangayID = &id
	case string:
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return domain.Identity{}, errors.New("Invalid barangay in token")
		}
		id := uint(n)
		identity.BarangayID = &id
	default:
		return domain.Identity{}, errors.New("Invalid barangay in token")
	}

	return identity, nil
}

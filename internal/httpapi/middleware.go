package httpapi

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

type JWTClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

func (s *Server) AuthMiddleware(c *gin.Context) {
	tokenStr := c.GetHeader("Authorization")
	if !strings.HasPrefix(tokenStr, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing token"})
		return
	}
	tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.cfg.JWTSecret, nil
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	} else {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
	}
}

func (s *Server) AdminMiddleware(c *gin.Context) {
	if c.GetString("role") != "admin" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "admin access required"})
		return
	}
	c.Next()
}

// requireOwnUser checks that the :userId path segment belongs to the
// authenticated user. Carts and addresses are owned exclusively by the
// requesting user.
func (s *Server) requireOwnUser(c *gin.Context) bool {
	if c.Param("userId") != c.GetString("userId") {
		fail(c, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

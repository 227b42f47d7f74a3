package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
)

const CtxUserIDKey = "user_id"
const CtxRoleKey = "role"

func AuthMiddleware(jwtMgr *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(h, "Bearer ")
		claims, err := jwtMgr.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid subject claim"})
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, _ := c.Get(CtxRoleKey)
		if rRole, ok := r.(user.Role); !ok || rRole != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// Identity pulls the authenticated user out of the gin context set by
// AuthMiddleware.
func Identity(c *gin.Context) (userID int64, role user.Role) {
	idAny, _ := c.Get(CtxUserIDKey)
	roleAny, _ := c.Get(CtxRoleKey)
	userID, _ = idAny.(int64)
	role, _ = roleAny.(user.Role)
	return userID, role
}

// Package middleware Gin中间件
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/shopmall/pkg/errors"
	"github.com/xiebiao/shopmall/pkg/jwt"
	"github.com/xiebiao/shopmall/pkg/response"
)

// userIDKey 用户ID在Gin Context中的键
const userIDKey = "user_id"

// Auth JWT认证中间件
// 从Authorization: Bearer <token>解析用户身份，放入Context
func Auth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			response.Error(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// GetUserID 取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, exists := c.Get(userIDKey); exists {
		if userID, ok := v.(uint); ok {
			return userID
		}
	}
	return 0
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/openlearn/learnportal-be/types"
	"github.com/openlearn/learnportal-be/utils"
)

const UserContextKey = "user"

func AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  "error",
			Message: "Authorization header is required",
		})
		return
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  "error",
			Message: "Authorization header format must be Bearer {token}",
		})
		return
	}

	claims, err := utils.ParseUserToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  "error",
			Message: "invalid token",
		})
		return
	}

	c.Set(UserContextKey, claims)
	c.Next()
}

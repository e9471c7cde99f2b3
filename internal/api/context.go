package api

import "github.com/gin-gonic/gin"

// userIDFromContext 는 인증 미들웨어가 심어둔 사용자 ID 를 꺼낸다.
func userIDFromContext(c *gin.Context) (uint, bool) {
	value, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}

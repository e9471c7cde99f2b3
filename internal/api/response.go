package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuslink/internal/apperr"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func Unauthorized(c *gin.Context)           { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// Fail 은 apperr.Kind 를 HTTP 상태로 사상한다. 화면은 메시지를 그대로 보여준다.
func Fail(c *gin.Context, err error) {
	msg := apperr.MessageOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		BadRequest(c, msg)
	case apperr.KindConflict:
		Conflict(c, msg)
	case apperr.KindNotFound:
		NotFound(c, msg)
	case apperr.KindUnauthorized, apperr.KindSessionExpired:
		Error(c, http.StatusUnauthorized, msg)
	case apperr.KindBackend:
		Error(c, http.StatusBadGateway, msg)
	default:
		Internal(c, "internal error")
	}
}

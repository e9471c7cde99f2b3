package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"campuslink/internal/api/middleware"
	"campuslink/internal/auth"
	"campuslink/internal/database"
	"campuslink/internal/validate"
)

// UserHandler 는 내 정보 조회/수정, 화면 상태 보관, 회원 탈퇴를 처리한다.
type UserHandler struct {
	db          *gorm.DB
	authService *auth.AuthService
	redis       redis.UniversalClient
	logger      *slog.Logger
}

// NewUserHandler 는 프로필 핸들러를 만든다.
func NewUserHandler(db *gorm.DB, authService *auth.AuthService, redisClient redis.UniversalClient, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		db:          db,
		authService: authService,
		redis:       redisClient,
		logger:      logger,
	}
}

type userResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(user database.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

// Me 는 현재 로그인한 사용자 프로필을 돌려준다.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var user database.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 토큰은 유효하지만 계정이 이미 지워진 경우. 강제 로그아웃 대상이다.
			Unauthorized(c)
			return
		}
		h.loggerFromContext(c).Error("load profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type updateMeRequest struct {
	Nickname string `json:"nickname" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// UpdateMe 는 닉네임/휴대폰 번호를 수정한다.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if !validate.Nickname(req.Nickname) {
		BadRequest(c, validate.NicknameMessage)
		return
	}
	if !validate.Phone(req.Phone) {
		BadRequest(c, validate.PhoneMessage)
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.Uint64("user_id", uint64(userID)))

	var user database.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		logger.Info("update profile: user not found", slog.Any("error", err))
		Unauthorized(c)
		return
	}

	if user.Nickname == req.Nickname && user.Phone == req.Phone {
		BadRequest(c, "변경된 정보가 없습니다.")
		return
	}

	if err := h.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"nickname": req.Nickname,
		"phone":    req.Phone,
	}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, msgNicknameTaken)
			return
		}
		logger.Error("update profile failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	user.Nickname = req.Nickname
	user.Phone = req.Phone
	c.JSON(http.StatusOK, newUserResponse(user))
}

// DeleteMe 는 회원 탈퇴를 처리한다.
// 댓글, 게시글, 관심 학교, 회원 레코드를 한 트랜잭션으로 지운다.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.Uint64("user_id", uint64(userID)))

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&database.Comment{}).Error; err != nil {
			return err
		}
		// 내 게시글에 달린 남의 댓글도 함께 정리한다.
		if err := tx.Unscoped().
			Where("post_id IN (?)", tx.Model(&database.Post{}).Select("id").Where("user_id = ?", userID)).
			Delete(&database.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&database.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&database.UserSchool{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&database.User{}, userID).Error
	})
	if err != nil {
		logger.Error("delete account failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	// 남은 리프레시 토큰은 더 쓸 수 없도록 폐기한다.
	if refreshToken, err := c.Cookie(refreshTokenCookieName); err == nil && refreshToken != "" {
		if claims, err := h.authService.ValidateToken(refreshToken); err == nil && claims.TokenType == "refresh" && claims.ID != "" {
			key := refreshTokenBlacklistKeyPrefix + claims.ID
			_ = revokeRefreshToken(ctx, h.redis, key, claims.ExpiresAt, h.authService.RefreshTokenTTL())
		}
	}

	logger.Info("account deleted")
	c.JSON(http.StatusOK, gin.H{"message": "회원 탈퇴가 완료되었습니다."})
}

// GetPreferences 는 저장된 화면 상태(JSONB)를 그대로 돌려준다.
func (h *UserHandler) GetPreferences(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var user database.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		Unauthorized(c)
		return
	}

	if len(user.Preferences) == 0 {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.Data(http.StatusOK, "application/json", user.Preferences)
}

// PutPreferences 는 화면 상태를 통째로 교체한다. 마지막 선택 학교 탭 등이 들어간다.
func (h *UserHandler) PutPreferences(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var prefs datatypes.JSON
	if err := c.ShouldBindJSON(&prefs); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&database.User{}).
		Where("id = ?", userID).
		Update("preferences", prefs).Error; err != nil {
		h.loggerFromContext(c).Error("save preferences failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

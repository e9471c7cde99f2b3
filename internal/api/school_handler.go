package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"campuslink/internal/api/middleware"
	"campuslink/internal/apperr"
	"campuslink/internal/database"
)

// 학교 검색 결과 상한.
const schoolSearchLimit = 20

const (
	msgSchoolLimit     = "최대 5개까지만 추가할 수 있습니다."
	msgSchoolDuplicate = "이미 추가된 학교입니다."
	msgSchoolAdded     = "학교가 추가되었습니다."
)

// SchoolHandler 는 학교 검색과 관심 학교 멤버십을 처리한다.
type SchoolHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSchoolHandler 는 학교 핸들러를 만든다.
func NewSchoolHandler(db *gorm.DB, logger *slog.Logger) *SchoolHandler {
	return &SchoolHandler{db: db, logger: logger}
}

type schoolResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type interestSchoolResponse struct {
	UserSchoolID uint   `json:"user_school_id"`
	SchoolID     uint   `json:"school_id"`
	Name         string `json:"name"`
}

// Search 는 대소문자 구분 없는 부분 일치 검색. 최대 20건.
func (h *SchoolHandler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		BadRequest(c, "검색어를 입력하세요.")
		return
	}

	var schools []database.School
	if err := h.db.WithContext(c.Request.Context()).
		Where("LOWER(name) LIKE LOWER(?)", "%"+keyword+"%").
		Order("name").
		Limit(schoolSearchLimit).
		Find(&schools).Error; err != nil {
		h.loggerFromContext(c).Error("school search failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	result := make([]schoolResponse, 0, len(schools))
	for _, s := range schools {
		result = append(result, schoolResponse{ID: s.ID, Name: s.Name})
	}
	c.JSON(http.StatusOK, gin.H{"schools": result})
}

// ListMine 은 관심 학교 목록을 돌려준다. 홈 화면의 탭 구성에 쓴다.
func (h *SchoolHandler) ListMine(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var rows []struct {
		ID       uint
		SchoolID uint
		Name     string
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(&database.UserSchool{}).
		Select("user_schools.id, user_schools.school_id, schools.name").
		Joins("JOIN schools ON schools.id = user_schools.school_id").
		Where("user_schools.user_id = ?", userID).
		Order("user_schools.created_at, user_schools.id").
		Scan(&rows).Error; err != nil {
		h.loggerFromContext(c).Error("list interest schools failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	result := make([]interestSchoolResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, interestSchoolResponse{
			UserSchoolID: r.ID,
			SchoolID:     r.SchoolID,
			Name:         r.Name,
		})
	}
	c.JSON(http.StatusOK, gin.H{"schools": result})
}

type addSchoolRequest struct {
	SchoolID uint `json:"school_id" binding:"required"`
}

// AddMine 은 관심 학교를 추가한다.
// 사용자 행 잠금 → 개수 상한 검사 → 삽입을 한 트랜잭션에서 수행하고,
// 중복 여부는 (user,school) 유니크 제약 충돌로 판정한다.
func (h *SchoolHandler) AddMine(c *gin.Context) {
	var req addSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("school_id", uint64(req.SchoolID)),
	)

	var school database.School
	if err := h.db.WithContext(ctx).First(&school, req.SchoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "학교를 찾을 수 없습니다.")
			return
		}
		logger.Error("load school failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 같은 사용자의 동시 추가를 직렬화하기 위해 먼저 사용자 행에 쓰기 잠금을 건다.
		// 잠금 없이는 READ COMMITTED 에서 두 트랜잭션이 모두 4개를 세고 6개가 될 수 있다.
		lock := tx.Model(&database.User{}).Where("id = ?", userID).Update("updated_at", time.Now())
		if lock.Error != nil {
			return lock.Error
		}
		if lock.RowsAffected == 0 {
			return apperr.New(apperr.KindUnauthorized, "unauthorized")
		}

		var count int64
		if err := tx.Model(&database.UserSchool{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count >= database.InterestSchoolLimit {
			return apperr.Conflict(msgSchoolLimit)
		}
		if err := tx.Create(&database.UserSchool{UserID: userID, SchoolID: req.SchoolID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Wrap(apperr.KindConflict, msgSchoolDuplicate, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUnknown {
			logger.Error("add interest school failed", slog.Any("error", err))
		}
		Fail(c, err)
		return
	}

	logger.Info("interest school added")
	c.JSON(http.StatusCreated, gin.H{"message": msgSchoolAdded})
}

// RemoveMine 은 관심 학교 멤버십을 삭제한다. 본인 소유 행만 지울 수 있다.
func (h *SchoolHandler) RemoveMine(c *gin.Context) {
	userSchoolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid user school id")
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	result := h.db.WithContext(c.Request.Context()).
		Unscoped().
		Where("id = ? AND user_id = ?", userSchoolID, userID).
		Delete(&database.UserSchool{})
	if result.Error != nil {
		h.loggerFromContext(c).Error("remove interest school failed", slog.Any("error", result.Error))
		Internal(c, "internal error")
		return
	}
	if result.RowsAffected == 0 {
		NotFound(c, "관심 학교를 찾을 수 없습니다.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SchoolHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

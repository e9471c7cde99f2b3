package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"campuslink/internal/api/middleware"
	"campuslink/internal/database"
	"campuslink/internal/tasks"
	"campuslink/internal/timeutil"
)

const commentMaxRunes = 800

const (
	msgCommentRequired = "댓글 내용을 입력해 주세요."
	msgCommentTooLong  = "댓글은 800자 이내로 입력해주세요."
)

// taskEnqueuer 는 asynq.Client 의 Enqueue 부분만 추린 것. 테스트에서 가짜로 바꾼다.
type taskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CommentHandler 는 게시글 댓글 목록/작성을 처리한다.
type CommentHandler struct {
	db       *gorm.DB
	enqueuer taskEnqueuer
	logger   *slog.Logger
}

// NewCommentHandler 는 댓글 핸들러를 만든다. enqueuer 가 nil 이면 알림 없이 동작한다.
func NewCommentHandler(db *gorm.DB, enqueuer taskEnqueuer, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{db: db, enqueuer: enqueuer, logger: logger}
}

type commentRow struct {
	ID             uint
	Content        string
	UserID         uint
	CreatedAt      time.Time
	AuthorNickname string
}

type commentItem struct {
	ID           uint   `json:"id"`
	Content      string `json:"content"`
	Author       string `json:"author"`
	CreatedAt    string `json:"created_at"`
	CreatedLabel string `json:"created_label"`
}

// List 는 게시글의 댓글을 오래된 순으로 돌려준다.
func (h *CommentHandler) List(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid post id")
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()

	var post database.Post
	if err := h.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, msgPostNotFound)
			return
		}
		h.loggerFromContext(c).Error("load post failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	member, err := h.isInterestSchool(ctx, userID, post.SchoolID)
	if err != nil {
		h.loggerFromContext(c).Error("membership check failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if !member {
		Forbidden(c, msgNotInterestSchool)
		return
	}

	var rows []commentRow
	if err := h.db.WithContext(ctx).
		Model(&database.Comment{}).
		Select("comments.id, comments.content, comments.user_id, comments.created_at, users.nickname AS author_nickname").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Scan(&rows).Error; err != nil {
		h.loggerFromContext(c).Error("list comments failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	items := make([]commentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, commentItem{
			ID:           row.ID,
			Content:      row.Content,
			Author:       row.AuthorNickname,
			CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339),
			CreatedLabel: timeutil.TimeAgo(row.CreatedAt),
		})
	}
	c.JSON(http.StatusOK, gin.H{"comments": items})
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// Create 는 댓글을 작성하고 글 작성자 알림 태스크를 큐에 넣는다.
// 알림 큐 적재 실패는 댓글 작성 자체를 막지 않는다.
func (h *CommentHandler) Create(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid post id")
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		BadRequest(c, msgCommentRequired)
		return
	}
	if utf8.RuneCountInString(content) > commentMaxRunes {
		BadRequest(c, msgCommentTooLong)
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
		slog.Uint64("post_id", postID),
	)

	var post database.Post
	if err := h.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, msgPostNotFound)
			return
		}
		logger.Error("load post failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	member, err := h.isInterestSchool(ctx, userID, post.SchoolID)
	if err != nil {
		logger.Error("membership check failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if !member {
		Forbidden(c, msgNotInterestSchool)
		return
	}

	comment := database.Comment{
		PostID:  post.ID,
		UserID:  userID,
		Content: content,
	}
	if err := h.db.WithContext(ctx).Create(&comment).Error; err != nil {
		logger.Error("create comment failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	h.enqueueNotify(c, post.ID, comment.ID, logger)

	logger.Info("comment created", slog.Uint64("comment_id", uint64(comment.ID)))
	c.JSON(http.StatusCreated, gin.H{"id": comment.ID})
}

func (h *CommentHandler) enqueueNotify(c *gin.Context, postID, commentID uint, logger *slog.Logger) {
	if h.enqueuer == nil {
		return
	}
	task, err := tasks.NewCommentCreatedTask(postID, commentID, middleware.GetCorrelationID(c))
	if err != nil {
		logger.Error("build notify task failed", slog.Any("error", err))
		return
	}
	if _, err := h.enqueuer.Enqueue(task); err != nil {
		logger.Error("enqueue notify task failed", slog.Any("error", err))
	}
}

func (h *CommentHandler) isInterestSchool(ctx context.Context, userID, schoolID uint) (bool, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&database.UserSchool{}).
		Where("user_id = ? AND school_id = ?", userID, schoolID).
		Count(&count).Error
	return count > 0, err
}

func (h *CommentHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

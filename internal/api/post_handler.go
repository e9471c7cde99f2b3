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
	"gorm.io/gorm"

	"campuslink/internal/api/middleware"
	"campuslink/internal/database"
	"campuslink/internal/timeutil"
)

const (
	postTitleMaxRunes   = 40
	postContentMaxRunes = 800
	postPageDefaultSize = 15
	postPageMaxSize     = 50
)

const (
	msgPostFieldsRequired = "제목과 내용을 모두 입력해 주세요."
	msgTitleTooLong       = "제목은 40자 이내로 입력해주세요."
	msgContentTooLong     = "내용은 800자 이내로 입력해주세요."
	msgNotInterestSchool  = "관심 학교로 추가한 학교만 볼 수 있습니다."
	msgPostNotFound       = "게시글을 찾을 수 없습니다."
)

// PostHandler 는 학교별 게시판의 글 목록/작성/상세를 처리한다.
type PostHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPostHandler 는 게시글 핸들러를 만든다.
func NewPostHandler(db *gorm.DB, logger *slog.Logger) *PostHandler {
	return &PostHandler{db: db, logger: logger}
}

// postRow 는 목록 조회의 스캔 대상. 댓글 수는 서브쿼리 한 방으로 같이 가져온다.
type postRow struct {
	ID             uint
	Title          string
	Content        string
	UserID         uint
	SchoolID       uint
	ViewCount      int64
	CreatedAt      time.Time
	AuthorNickname string
	CommentCount   int64
}

type postListItem struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Author       string `json:"author"`
	SchoolID     uint   `json:"school_id"`
	ViewCount    int64  `json:"view_count"`
	CommentCount int64  `json:"comment_count"`
	CreatedAt    string `json:"created_at"`
	CreatedLabel string `json:"created_label"`
}

func newPostListItem(row postRow) postListItem {
	return postListItem{
		ID:           row.ID,
		Title:        row.Title,
		Content:      row.Content,
		Author:       row.AuthorNickname,
		SchoolID:     row.SchoolID,
		ViewCount:    row.ViewCount,
		CommentCount: row.CommentCount,
		CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339),
		CreatedLabel: timeutil.TimeAgo(row.CreatedAt),
	}
}

// ListForSchool 은 학교 피드를 최신순으로 돌려준다.
// 작성자 닉네임과 댓글 수를 조인/서브쿼리로 함께 읽는다. 글마다 추가 왕복은 없다.
func (h *PostHandler) ListForSchool(c *gin.Context) {
	schoolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid school id")
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	member, err := h.isInterestSchool(ctx, userID, uint(schoolID))
	if err != nil {
		h.loggerFromContext(c).Error("membership check failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if !member {
		Forbidden(c, msgNotInterestSchool)
		return
	}

	offset, limit := pagination(c)

	commentCount := h.db.Model(&database.Comment{}).
		Select("COUNT(*)").
		Where("comments.post_id = posts.id")

	var rows []postRow
	if err := h.db.WithContext(ctx).
		Model(&database.Post{}).
		Select("posts.id, posts.title, posts.content, posts.user_id, posts.school_id, posts.view_count, posts.created_at, users.nickname AS author_nickname, (?) AS comment_count", commentCount).
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.school_id = ?", schoolID).
		Order("posts.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		h.loggerFromContext(c).Error("list posts failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	items := make([]postListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, newPostListItem(row))
	}
	c.JSON(http.StatusOK, gin.H{"posts": items})
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create 는 게시글을 작성한다. 관심 학교 게시판에만 쓸 수 있다.
func (h *PostHandler) Create(c *gin.Context) {
	schoolID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid school id")
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		BadRequest(c, msgPostFieldsRequired)
		return
	}
	if utf8.RuneCountInString(title) > postTitleMaxRunes {
		BadRequest(c, msgTitleTooLong)
		return
	}
	if utf8.RuneCountInString(content) > postContentMaxRunes {
		BadRequest(c, msgContentTooLong)
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
		slog.Uint64("school_id", schoolID),
	)

	member, err := h.isInterestSchool(ctx, userID, uint(schoolID))
	if err != nil {
		logger.Error("membership check failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	if !member {
		Forbidden(c, msgNotInterestSchool)
		return
	}

	post := database.Post{
		Title:    title,
		Content:  content,
		UserID:   userID,
		SchoolID: uint(schoolID),
	}
	if err := h.db.WithContext(ctx).Create(&post).Error; err != nil {
		logger.Error("create post failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	logger.Info("post created", slog.Uint64("post_id", uint64(post.ID)))
	c.JSON(http.StatusCreated, gin.H{"id": post.ID})
}

// GetOne 은 게시글 상세를 돌려주면서 조회수를 1 올린다.
// 증가는 UPDATE view_count = view_count + 1 식으로 원자적이다.
func (h *PostHandler) GetOne(c *gin.Context) {
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

	if err := h.db.WithContext(ctx).
		Model(&database.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		h.loggerFromContext(c).Error("increment view count failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}
	post.ViewCount++

	var author database.User
	if err := h.db.WithContext(ctx).First(&author, post.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.loggerFromContext(c).Error("load author failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	var commentCount int64
	if err := h.db.WithContext(ctx).Model(&database.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
		h.loggerFromContext(c).Error("count comments failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	c.JSON(http.StatusOK, newPostListItem(postRow{
		ID:             post.ID,
		Title:          post.Title,
		Content:        post.Content,
		UserID:         post.UserID,
		SchoolID:       post.SchoolID,
		ViewCount:      post.ViewCount,
		CreatedAt:      post.CreatedAt,
		AuthorNickname: author.Nickname,
		CommentCount:   commentCount,
	}))
}

func (h *PostHandler) isInterestSchool(ctx context.Context, userID, schoolID uint) (bool, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&database.UserSchool{}).
		Where("user_id = ? AND school_id = ?", userID, schoolID).
		Count(&count).Error
	return count > 0, err
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(postPageDefaultSize)))
	if limit <= 0 {
		limit = postPageDefaultSize
	}
	if limit > postPageMaxSize {
		limit = postPageMaxSize
	}
	return offset, limit
}

func (h *PostHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"campuslink/internal/database"
	"campuslink/internal/tasks"
)

// CommentNotifyHandler 는 댓글 생성 태스크를 받아 글쓴이에게 알림을 발행한다.
// 발행 채널은 user_notify:<작성자 ID>, WebSocket 핸들러가 구독해 전달한다.
type CommentNotifyHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewCommentNotifyHandler 는 알림 핸들러를 만든다.
func NewCommentNotifyHandler(db *gorm.DB, redisClient *redis.Client, logger *slog.Logger) *CommentNotifyHandler {
	return &CommentNotifyHandler{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ProcessTask 는 asynq.Handler 구현.
func (h *CommentNotifyHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload tasks.CommentCreatedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	logger := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("post_id", uint64(payload.PostID)),
		slog.Uint64("comment_id", uint64(payload.CommentID)),
	)

	var comment database.Comment
	if err := h.db.WithContext(ctx).First(&comment, payload.CommentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 회원 탈퇴 등으로 이미 지워졌으면 재시도할 이유가 없다.
			logger.Info("comment gone, skipping notification")
			return nil
		}
		return fmt.Errorf("load comment: %w", err)
	}

	var post database.Post
	if err := h.db.WithContext(ctx).First(&post, comment.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("post gone, skipping notification")
			return nil
		}
		return fmt.Errorf("load post: %w", err)
	}

	if post.UserID == comment.UserID {
		// 자기 글에 단 댓글은 알리지 않는다.
		return nil
	}

	var commenter database.User
	if err := h.db.WithContext(ctx).First(&commenter, comment.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("commenter gone, skipping notification")
			return nil
		}
		return fmt.Errorf("load commenter: %w", err)
	}

	message := CommentNotifyMessage{
		Type:          "comment",
		PostID:        post.ID,
		PostTitle:     post.Title,
		Commenter:     commenter.Nickname,
		CorrelationID: payload.CorrelationID,
	}
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	channel := fmt.Sprintf("user_notify:%d", post.UserID)
	if err := h.redisClient.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	logger.Info("comment notification published", slog.String("channel", channel))
	return nil
}

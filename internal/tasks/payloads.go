package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 태스크 타입 상수. 큐 생산자와 소비자가 같은 문자열을 본다.
const (
	TypeCommentCreated = "community:comment_created"
)

// CommentCreatedPayload 는 댓글 알림 발송에 필요한 최소 정보.
type CommentCreatedPayload struct {
	PostID        uint   `json:"post_id"`
	CommentID     uint   `json:"comment_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewCommentCreatedTask 는 댓글 생성 알림 태스크를 만든다.
func NewCommentCreatedTask(postID, commentID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(CommentCreatedPayload{
		PostID:        postID,
		CommentID:     commentID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCommentCreated, payload), nil
}

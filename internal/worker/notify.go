package worker

// WebSocket 으로 전달되는 알림 메시지 프로토콜(Redis Pub/Sub 경유).
// 필드명은 프런트 파서와 맞춰져 있다.
type CommentNotifyMessage struct {
	Type          string `json:"type"`
	PostID        uint   `json:"post_id"`
	PostTitle     string `json:"post_title"`
	Commenter     string `json:"commenter"`
	CorrelationID string `json:"correlation_id"`
}

package worker

import (
	"context"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campuslink/internal/database"
	"campuslink/internal/tasks"
)

func newTestHandler(t *testing.T) (*CommentNotifyHandler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// 레디스에 도달하기 전에 끝나는 경로만 검증한다.
	dead := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	return NewCommentNotifyHandler(db, dead, slog.Default()), db
}

func TestProcessTask_SkipsMissingComment(t *testing.T) {
	h, _ := newTestHandler(t)

	task, err := tasks.NewCommentCreatedTask(1, 999, "test-cid")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected missing comment to be skipped, got %v", err)
	}
}

func TestProcessTask_SkipsSelfComment(t *testing.T) {
	h, db := newTestHandler(t)

	author := database.User{Email: "a@b.com", Nickname: "tester1"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	school := database.School{Name: "KAIST"}
	if err := db.Create(&school).Error; err != nil {
		t.Fatalf("seed school: %v", err)
	}
	post := database.Post{Title: "hello", Content: "본문", UserID: author.ID, SchoolID: school.ID}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	comment := database.Comment{PostID: post.ID, UserID: author.ID, Content: "내 글에 단 댓글"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	task, err := tasks.NewCommentCreatedTask(post.ID, comment.ID, "test-cid")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected self comment to be skipped, got %v", err)
	}
}

func TestProcessTask_RejectsBadPayload(t *testing.T) {
	h, _ := newTestHandler(t)

	task := asynq.NewTask(tasks.TypeCommentCreated, []byte("not-json"))
	if err := h.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected decode error for broken payload")
	}
}

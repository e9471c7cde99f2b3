package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"campuslink/internal/database"
	"campuslink/internal/tasks"
)

type fakeEnqueuer struct {
	enqueued []*asynq.Task
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.enqueued = append(f.enqueued, task)
	return &asynq.TaskInfo{}, nil
}

func TestCreateComment_EnqueuesNotification(t *testing.T) {
	db := newTestDB(t)
	enqueuer := &fakeEnqueuer{}
	h := NewCommentHandler(db, enqueuer, nil)

	author := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")
	commenter := seedUser(t, db, "c@d.com", "tester2", "Abc12345!")
	school := seedSchool(t, db, "KAIST")
	seedMembership(t, db, author.ID, school.ID)
	seedMembership(t, db, commenter.ID, school.ID)
	post := seedPost(t, db, author.ID, school.ID, "hello", time.Now())

	req := jsonRequest(t, http.MethodPost, "/v1/posts/1/comments", map[string]string{
		"content": "첫 댓글입니다.",
	})
	c, w := newHandlerContext(req, commenter.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(post.ID)}}
	h.Create(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	if len(enqueuer.enqueued) != 1 {
		t.Fatalf("expected 1 enqueued task got %d", len(enqueuer.enqueued))
	}

	task := enqueuer.enqueued[0]
	if task.Type() != tasks.TypeCommentCreated {
		t.Fatalf("expected task type %q got %q", tasks.TypeCommentCreated, task.Type())
	}
	var payload tasks.CommentCreatedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.PostID != post.ID {
		t.Fatalf("expected post id %d got %d", post.ID, payload.PostID)
	}
}

func TestCreateComment_NilEnqueuerStillCreates(t *testing.T) {
	db := newTestDB(t)
	h := NewCommentHandler(db, nil, nil)

	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")
	school := seedSchool(t, db, "KAIST")
	seedMembership(t, db, user.ID, school.ID)
	post := seedPost(t, db, user.ID, school.ID, "hello", time.Now())

	req := jsonRequest(t, http.MethodPost, "/v1/posts/1/comments", map[string]string{
		"content": "댓글",
	})
	c, w := newHandlerContext(req, user.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(post.ID)}}
	h.Create(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestCreateComment_RejectsLongContent(t *testing.T) {
	db := newTestDB(t)
	h := NewCommentHandler(db, nil, nil)

	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")
	school := seedSchool(t, db, "KAIST")
	seedMembership(t, db, user.ID, school.ID)
	post := seedPost(t, db, user.ID, school.ID, "hello", time.Now())

	req := jsonRequest(t, http.MethodPost, "/v1/posts/1/comments", map[string]string{
		"content": strings.Repeat("가", commentMaxRunes+1),
	})
	c, w := newHandlerContext(req, user.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(post.ID)}}
	h.Create(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["error"]; got != msgCommentTooLong {
		t.Fatalf("expected %q got %v", msgCommentTooLong, got)
	}
}

func TestCreateComment_UnknownPost(t *testing.T) {
	db := newTestDB(t)
	h := NewCommentHandler(db, nil, nil)
	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")

	req := jsonRequest(t, http.MethodPost, "/v1/posts/999/comments", map[string]string{
		"content": "댓글",
	})
	c, w := newHandlerContext(req, user.ID)
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	h.Create(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestListComments_OldestFirstWithAuthor(t *testing.T) {
	db := newTestDB(t)
	h := NewCommentHandler(db, nil, nil)

	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")
	school := seedSchool(t, db, "KAIST")
	seedMembership(t, db, user.ID, school.ID)
	post := seedPost(t, db, user.ID, school.ID, "hello", time.Now())

	now := time.Now()
	for i, content := range []string{"first", "second"} {
		comment := database.Comment{PostID: post.ID, UserID: user.ID, Content: content}
		comment.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		if err := db.Create(&comment).Error; err != nil {
			t.Fatalf("seed comment: %v", err)
		}
	}

	req := jsonRequest(t, http.MethodGet, "/v1/posts/1/comments", nil)
	c, w := newHandlerContext(req, user.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(post.ID)}}
	h.List(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	comments, _ := decodeBody(t, w)["comments"].([]any)
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments got %d: %s", len(comments), w.Body.String())
	}
	first, _ := comments[0].(map[string]any)
	if first["content"] != "first" {
		t.Fatalf("expected oldest first got %v", first["content"])
	}
	if first["author"] != "tester1" {
		t.Fatalf("expected author nickname got %v", first["author"])
	}
}

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"campuslink/internal/database"
)

func TestSearchSchools_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	seedSchool(t, db, "KAIST")
	seedSchool(t, db, "Seoul National University")
	seedSchool(t, db, "Korea University")

	req := jsonRequest(t, http.MethodGet, "/v1/schools?q=kaist", nil)
	c, w := newHandlerContext(req, 1)
	h.Search(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	schools, _ := decodeBody(t, w)["schools"].([]any)
	if len(schools) != 1 {
		t.Fatalf("expected 1 match got %d: %s", len(schools), w.Body.String())
	}
}

func TestSearchSchools_CapsResultCount(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	for i := 0; i < schoolSearchLimit+5; i++ {
		seedSchool(t, db, fmt.Sprintf("Hanguk University %02d", i))
	}

	req := jsonRequest(t, http.MethodGet, "/v1/schools?q=Hanguk", nil)
	c, w := newHandlerContext(req, 1)
	h.Search(c)

	schools, _ := decodeBody(t, w)["schools"].([]any)
	if len(schools) != schoolSearchLimit {
		t.Fatalf("expected %d results got %d", schoolSearchLimit, len(schools))
	}
}

func TestAddMine_RejectsSixthSchool(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")

	for i := 0; i < database.InterestSchoolLimit; i++ {
		school := seedSchool(t, db, fmt.Sprintf("School %d", i))
		seedMembership(t, db, user.ID, school.ID)
	}
	extra := seedSchool(t, db, "One Too Many")

	req := jsonRequest(t, http.MethodPost, "/v1/me/schools", map[string]uint{"school_id": extra.ID})
	c, w := newHandlerContext(req, user.ID)
	h.AddMine(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["error"]; got != msgSchoolLimit {
		t.Fatalf("expected %q got %v", msgSchoolLimit, got)
	}

	var count int64
	if err := db.Model(&database.UserSchool{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	if count != database.InterestSchoolLimit {
		t.Fatalf("expected %d memberships got %d", database.InterestSchoolLimit, count)
	}
}

func TestAddMine_AllowsFifthSchool(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")

	for i := 0; i < database.InterestSchoolLimit-1; i++ {
		school := seedSchool(t, db, fmt.Sprintf("School %d", i))
		seedMembership(t, db, user.ID, school.ID)
	}
	fifth := seedSchool(t, db, "Last Slot")

	req := jsonRequest(t, http.MethodPost, "/v1/me/schools", map[string]uint{"school_id": fifth.ID})
	c, w := newHandlerContext(req, user.ID)
	h.AddMine(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&database.UserSchool{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	if count != database.InterestSchoolLimit {
		t.Fatalf("expected %d memberships got %d", database.InterestSchoolLimit, count)
	}
}

func TestAddMine_DeletedAccountGetsUnauthorized(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	school := seedSchool(t, db, "KAIST")

	// 토큰은 살아 있지만 계정이 이미 지워진 경우: 잠글 사용자 행이 없다.
	req := jsonRequest(t, http.MethodPost, "/v1/me/schools", map[string]uint{"school_id": school.ID})
	c, w := newHandlerContext(req, 42)
	h.AddMine(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAddMine_RejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")
	school := seedSchool(t, db, "KAIST")
	seedMembership(t, db, user.ID, school.ID)

	req := jsonRequest(t, http.MethodPost, "/v1/me/schools", map[string]uint{"school_id": school.ID})
	c, w := newHandlerContext(req, user.ID)
	h.AddMine(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["error"]; got != msgSchoolDuplicate {
		t.Fatalf("expected %q got %v", msgSchoolDuplicate, got)
	}
}

func TestAddMine_UnknownSchool(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")

	req := jsonRequest(t, http.MethodPost, "/v1/me/schools", map[string]uint{"school_id": 999})
	c, w := newHandlerContext(req, user.ID)
	h.AddMine(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestRemoveMine_IgnoresOtherUsersRow(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	owner := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")
	other := seedUser(t, db, "c@d.com", "tester2", "Abc12345!")
	school := seedSchool(t, db, "KAIST")
	membership := seedMembership(t, db, owner.ID, school.ID)

	req := jsonRequest(t, http.MethodDelete, "/v1/me/schools/1", nil)
	c, w := newHandlerContext(req, other.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(membership.ID)}}
	h.RemoveMine(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&database.UserSchool{}).Where("id = ?", membership.ID).Count(&count).Error; err != nil {
		t.Fatalf("count membership: %v", err)
	}
	if count != 1 {
		t.Fatal("membership must survive a delete attempt by another user")
	}
}

func TestListMine_ReturnsJoinedNames(t *testing.T) {
	db := newTestDB(t)
	h := NewSchoolHandler(db, nil)
	user := seedUser(t, db, "a@b.com", "tester1", "Abc12345!")
	first := seedSchool(t, db, "KAIST")
	second := seedSchool(t, db, "POSTECH")
	seedMembership(t, db, user.ID, first.ID)
	seedMembership(t, db, user.ID, second.ID)

	req := jsonRequest(t, http.MethodGet, "/v1/me/schools", nil)
	c, w := newHandlerContext(req, user.ID)
	h.ListMine(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	schools, _ := decodeBody(t, w)["schools"].([]any)
	if len(schools) != 2 {
		t.Fatalf("expected 2 schools got %d: %s", len(schools), w.Body.String())
	}
	firstRow, _ := schools[0].(map[string]any)
	if firstRow["name"] != "KAIST" {
		t.Fatalf("expected KAIST first got %v", firstRow["name"])
	}
}

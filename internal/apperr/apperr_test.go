package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_SurvivesWrapping(t *testing.T) {
	base := Conflict("이미 추가된 학교입니다.")
	wrapped := fmt.Errorf("add membership: %w", base)

	if got := KindOf(wrapped); got != KindConflict {
		t.Fatalf("expected KindConflict got %v", got)
	}
	if got := MessageOf(wrapped); got != "이미 추가된 학교입니다." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestKindOf_UnknownForPlainError(t *testing.T) {
	err := errors.New("boom")
	if got := KindOf(err); got != KindUnknown {
		t.Fatalf("expected KindUnknown got %v", got)
	}
	if got := MessageOf(err); got != "" {
		t.Fatalf("expected empty message got %q", got)
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindConflict, "이미 사용 중인 닉네임입니다.", cause)

	if !errors.Is(err, cause) {
		t.Fatal("wrapped cause must be reachable via errors.Is")
	}
}

package apperr

import (
	"errors"
	"fmt"
)

// Kind 는 사용자에게 보여줄 오류의 분류다.
// 문자열 비교 대신 종류로 분기할 수 있도록 모든 핸들러가 이 타입을 사용한다.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindSessionExpired
	KindBackend
)

// Error 는 Kind 와 사용자 노출 메시지를 함께 담는다.
// Message 는 그대로 화면에 보여줄 수 있는 한국어 문장이다.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New 는 원인 없는 오류를 만든다.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 은 사용자 메시지는 유지하면서 로그용 원인을 붙인다.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }

// KindOf 는 임의의 error 에서 Kind 를 꺼낸다. apperr 가 아니면 KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// MessageOf 는 사용자 노출 메시지를 꺼낸다. apperr 가 아니면 빈 문자열.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

package validate

import (
	"regexp"
	"unicode/utf8"
)

// 가입/프로필 입력값 검증 규칙.
// 모든 페이지가 이 패키지를 공유하므로 정규식이 화면마다 중복되지 않는다.
var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nicknamePattern = regexp.MustCompile(`^[가-힣a-zA-Z0-9]+$`)
	phonePattern    = regexp.MustCompile(`^01[0-9]-?[0-9]{3,4}-?[0-9]{4}$`)

	passwordLetter = regexp.MustCompile(`[a-zA-Z]`)
	passwordDigit  = regexp.MustCompile(`[0-9]`)
	passwordSymbol = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// 사용자에게 그대로 노출되는 안내 문구.
const (
	EmailMessage    = "이메일 형식이 올바르지 않습니다. 다시 입력해 주세요."
	PasswordMessage = "비밀번호는 영문/숫자/특수문자 각 1개 이상 사용하여 최소 8자 이상 입력해주세요."
	NicknameMessage = "특수문자 제외, 한글/영문/숫자로 최소 3자~최대 8자리까지 입력 가능합니다."
	PhoneMessage    = "잘못된 휴대폰번호입니다. 다시 입력해주세요."
)

// Email reports whether s has a standard email shape.
func Email(s string) bool {
	return s != "" && emailPattern.MatchString(s)
}

// Password 는 8자 이상, 영문/숫자/특수문자 각 1개 이상일 때 true.
func Password(s string) bool {
	if len(s) < 8 {
		return false
	}
	return passwordLetter.MatchString(s) &&
		passwordDigit.MatchString(s) &&
		passwordSymbol.MatchString(s)
}

// Nickname 은 한글/영문/숫자 3~8자일 때 true. 길이는 룬 기준이다.
func Nickname(s string) bool {
	if s == "" {
		return false
	}
	n := utf8.RuneCountInString(s)
	if n < 3 || n > 8 {
		return false
	}
	return nicknamePattern.MatchString(s)
}

// Phone 은 한국 휴대폰 번호 형식(하이픈 생략 가능)일 때 true.
func Phone(s string) bool {
	return s != "" && phonePattern.MatchString(s)
}

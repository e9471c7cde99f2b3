package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 는 bcrypt 로 비밀번호 해시를 만든다.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash 는 비밀번호가 해시와 일치하는지 확인한다.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

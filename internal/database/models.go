package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 는 가입 회원. 이메일이 로그인 ID 이며 닉네임과 함께 유니크 제약을 건다.
// Preferences 는 마지막으로 보던 학교 탭 같은 화면 상태를 JSONB 로 보관한다.
type User struct {
	gorm.Model
	Email        string         `gorm:"uniqueIndex;size:255"`
	Nickname     string         `gorm:"uniqueIndex;size:32"`
	Phone        string         `gorm:"size:20"`
	PasswordHash string         `gorm:"size:255"`
	Preferences  datatypes.JSON `gorm:"type:jsonb"`
}

// School 은 읽기 전용 참조 데이터. cmd/admin 으로 적재한다.
type School struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;size:255"`
}

// UserSchool 은 관심 학교 멤버십. 사용자당 최대 5개, (user,school) 쌍은 유니크.
type UserSchool struct {
	gorm.Model
	UserID   uint   `gorm:"index;uniqueIndex:idx_user_school,priority:1"`
	SchoolID uint   `gorm:"uniqueIndex:idx_user_school,priority:2"`
	User     User   `gorm:"constraint:OnDelete:CASCADE"`
	School   School `gorm:"constraint:OnDelete:CASCADE"`
}

// InterestSchoolLimit 는 사용자당 관심 학교 상한.
const InterestSchoolLimit = 5

// Post 는 학교별 게시글. 조회수는 UPDATE 식으로만 증가시킨다(읽고-더하기 금지).
type Post struct {
	gorm.Model
	Title     string `gorm:"size:40"`
	Content   string `gorm:"size:800"`
	UserID    uint   `gorm:"index"`
	SchoolID  uint   `gorm:"index"`
	ViewCount int64  `gorm:"default:0"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	School    School `gorm:"constraint:OnDelete:CASCADE"`
}

// Comment 는 게시글 댓글. 수정/삭제 경로는 제공하지 않는다.
type Comment struct {
	gorm.Model
	PostID  uint   `gorm:"index"`
	UserID  uint   `gorm:"index"`
	Content string `gorm:"size:800"`
	Post    Post   `gorm:"constraint:OnDelete:CASCADE"`
	User    User   `gorm:"constraint:OnDelete:CASCADE"`
}

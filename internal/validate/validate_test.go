package validate

import "testing"

func TestNickname(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"tester1", true},
		{"홍길동", true},
		{"홍길동abc12", true}, // 8 runes
		{"ab", false},      // too short
		{"가나", false},
		{"홍길동abc123", false}, // 9 runes
		{"nick!", false},
		{"nick name", false},
		{"테스터_1", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Nickname(tc.in); got != tc.want {
			t.Errorf("Nickname(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPassword(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Abc12345!", true},
		{"a1!bcdef", true},
		{"Abc1234!", true},
		{"abcdefgh", false},  // no digit, no symbol
		{"12345678!", false}, // no letter
		{"abcdefg1", false},  // no symbol
		{"A1!x", false},      // too short
		{"", false},
	}
	for _, tc := range cases {
		if got := Password(tc.in); got != tc.want {
			t.Errorf("Password(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"user.name+tag@example.co.kr", true},
		{"no-at-sign", false},
		{"a@b", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Email(tc.in); got != tc.want {
			t.Errorf("Email(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"010-1234-5678", true},
		{"01012345678", true},
		{"010-123-4567", true},
		{"011-9876-5432", true},
		{"02-1234-5678", false}, // landline
		{"010-12-345678", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Phone(tc.in); got != tc.want {
			t.Errorf("Phone(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

package timeutil

import (
	"fmt"
	"time"
)

// KST 고정 오프셋. 게시 시각 표기는 항상 한국 시간 자정을 기준으로 날짜를 가른다.
var KST = time.FixedZone("KST", 9*60*60)

// FormatTimeAgo 는 게시 시각을 피드 표기 규칙으로 포맷한다.
//   - 같은 KST 날짜: "방금 전" / "N분 전" / "N시간 전"
//   - 1~6일 전(자정 경과 기준): "N일 전"
//   - 7일 이상: "YY.MM.DD." 리터럴 날짜
//
// 경과 24시간 단위가 아니라 KST 자정을 넘었는지로 "일"을 센다.
func FormatTimeAgo(t, now time.Time) string {
	created := t.In(KST)
	current := now.In(KST)

	days := calendarDaysBetween(created, current)

	if days == 0 {
		diff := now.Sub(t)
		minutes := int(diff.Minutes())
		if minutes < 1 {
			return "방금 전"
		}
		if minutes < 60 {
			return fmt.Sprintf("%d분 전", minutes)
		}
		return fmt.Sprintf("%d시간 전", int(diff.Hours()))
	}

	if days >= 1 && days <= 6 {
		return fmt.Sprintf("%d일 전", days)
	}

	return created.Format("06.01.02.")
}

// TimeAgo 는 현재 시각 기준 FormatTimeAgo.
func TimeAgo(t time.Time) string {
	return FormatTimeAgo(t, time.Now())
}

func calendarDaysBetween(from, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, KST)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, KST)
	return int(toDate.Sub(fromDate).Hours() / 24)
}

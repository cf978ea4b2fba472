package shared

import "fmt"

// MillisToMinutesAndSeconds formats a duration in milliseconds as "M:SS".
//
// Partial seconds are dropped and negative durations format as "0:00".
func MillisToMinutesAndSeconds(ms int) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

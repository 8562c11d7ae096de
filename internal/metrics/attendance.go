// Package metrics holds the single implementation of every figure the
// dashboards derive from raw attendance, grade and family-size data.
package metrics

import (
	"math"

	"github.com/nurulquran/academy-backend/internal/model"
)

// AttendanceBreakdown counts records per status.
type AttendanceBreakdown struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Excused int `json:"excused"`
	Total   int `json:"total"`
	Rate    int `json:"rate"`
}

// AttendanceRate returns round(100 * present / total). An empty record set
// yields 100. Only PRESENT counts toward the rate; LATE and EXCUSED do not.
func AttendanceRate(records []model.AttendanceRecord) int {
	return Breakdown(records).Rate
}

// Breakdown tallies records by status and derives the attendance rate.
func Breakdown(records []model.AttendanceRecord) AttendanceBreakdown {
	var b AttendanceBreakdown
	for _, r := range records {
		switch r.Status {
		case model.AttendancePresent:
			b.Present++
		case model.AttendanceAbsent:
			b.Absent++
		case model.AttendanceLate:
			b.Late++
		case model.AttendanceExcused:
			b.Excused++
		}
		b.Total++
	}

	if b.Total == 0 {
		b.Rate = 100
		return b
	}
	b.Rate = int(math.Round(100 * float64(b.Present) / float64(b.Total)))
	return b
}

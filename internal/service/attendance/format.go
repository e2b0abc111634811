package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/domain/attendance"
)

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// FormatCount renders whole values without decimals and anything else with
// exactly one decimal place, so half days stay visible.
func FormatCount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// FormatThaiDate renders t as DD/MM/YYYY with a Buddhist era year.
func FormatThaiDate(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year()+attendance.BuddhistEraOffset)
}

// ThaiMonthLabel renders a period as "<Thai month> <Buddhist year>".
func ThaiMonthLabel(p attendance.Period) string {
	if p.Month < time.January || p.Month > time.December {
		return p.String()
	}
	return fmt.Sprintf("%s %d", thaiMonths[p.Month-1], p.Year+attendance.BuddhistEraOffset)
}

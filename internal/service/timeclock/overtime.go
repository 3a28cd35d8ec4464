package timeclock

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

const dateLayout = "2006-01-02"

// EntryMinutes is the whole-minute contribution of one closed entry.
func EntryMinutes(e timeclock.Entry) int64 {
	return e.DurationSeconds() / 60
}

// Aggregate splits one employee's entries for one period into regular and
// overtime minutes. Entries are grouped by the calendar day of their
// clock-in in loc. The daily split runs first; the weekly threshold is then
// applied to the sum of the daily regular minutes.
//
// Open entries are skipped. The caller decides which statuses count.
func Aggregate(entries []timeclock.Entry, cfg timeclock.OvertimeConfig, loc *time.Location) timeclock.OvertimeBreakdown {
	if loc == nil {
		loc = time.UTC
	}

	totals := make(map[string]int64)
	for _, e := range entries {
		if e.IsOpen() {
			continue
		}
		day := e.ClockIn.In(loc).Format(dateLayout)
		totals[day] += EntryMinutes(e)
	}

	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Strings(days)

	breakdown := timeclock.OvertimeBreakdown{
		Days: make([]timeclock.DayBreakdown, 0, len(days)),
	}

	var regularPool, dailyOvertime int64
	for _, day := range days {
		dayTotal := totals[day]
		regular, over := splitAt(dayTotal, cfg.DailyThresholdMinutes)

		breakdown.Days = append(breakdown.Days, timeclock.DayBreakdown{
			Date:                 day,
			TotalMinutes:         dayTotal,
			DailyRegularMinutes:  regular,
			DailyOvertimeMinutes: over,
		})

		regularPool += regular
		dailyOvertime += over
	}

	weeklyRegular, weeklyOvertime := splitAt(regularPool, cfg.WeeklyThresholdMinutes)

	breakdown.RegularMinutes = weeklyRegular
	breakdown.DailyOvertimeMinutes = dailyOvertime
	breakdown.WeeklyOvertimeMinutes = weeklyOvertime
	breakdown.OvertimeMinutes = dailyOvertime + weeklyOvertime
	breakdown.TotalMinutes = breakdown.RegularMinutes + breakdown.OvertimeMinutes

	return breakdown
}

// splitAt divides minutes at threshold. A nil threshold keeps everything regular.
func splitAt(minutes int64, threshold *int) (regular, over int64) {
	if threshold == nil {
		return minutes, 0
	}
	limit := int64(*threshold)
	if limit < 0 {
		limit = 0
	}
	if minutes <= limit {
		return minutes, 0
	}
	return limit, minutes - limit
}

package srs

import "time"

// legacyHistoryIntervals backs HistoryNext: the wait in days is chosen by
// how many reviews the card has accumulated, not by a stage.
var legacyHistoryIntervals = []int{1, 2, 4, 7, 14, 16, 30, 60}

// legacyHistoryMaxDays is the wait once the history outgrows the table.
const legacyHistoryMaxDays = 90

// LegacyNext computes the legacy scalar next-review date: three days out
// when the card was remembered, one day out when it was not. This field is
// independent of the staged schedule; the two are updated by different
// endpoints and read by different queries.
func LegacyNext(remembered bool, now time.Time) time.Time {
	days := 1
	if remembered {
		days = 3
	}
	return now.AddDate(0, 0, days)
}

// HistoryNext computes the next-review date for the history-count review
// path: remembered cards wait according to how many reviews they already
// have, forgotten cards come back tomorrow. reviewCount is the history
// length before the current review is appended.
func HistoryNext(reviewCount int, remembered bool, now time.Time) time.Time {
	if !remembered {
		return now.AddDate(0, 0, 1)
	}
	days := legacyHistoryMaxDays
	if reviewCount < len(legacyHistoryIntervals) {
		days = legacyHistoryIntervals[reviewCount]
	}
	return now.AddDate(0, 0, days)
}

package domain

import "time"

// ReviewRecord is one entry of a card's legacy review history. The history
// is append-only; entries are never rewritten.
type ReviewRecord struct {
	Date       time.Time `json:"date"`
	Remembered bool      `json:"remembered"`
}

// ScheduleEntry is one immutable entry of the staged scheduler's log.
// Performance is a caller-supplied score stored for analytics only; the
// scheduler never interprets it.
type ScheduleEntry struct {
	Date        time.Time `json:"date"`
	Stage       int       `json:"stage"`
	Success     bool      `json:"success"`
	Performance float64   `json:"performance"`
}

// ReviewSchedule is the staged spaced-repetition state of a card.
// Stage 0 means the card has never been scheduled; once scheduled a card
// never returns to stage 0. NextReview is nil while unscheduled.
type ReviewSchedule struct {
	Stage      int             `json:"currentStage"`
	NextReview *time.Time      `json:"nextReview,omitempty"`
	Log        []ScheduleEntry `json:"log"`
}

// BlankRecord holds one user's forgotten-blank state for a card: the set of
// token indices currently marked forgotten, plus a lifetime forget counter
// per index. Counters only ever increase; removing an index from Blanks
// does not decrement its counter.
type BlankRecord struct {
	Blanks []int       `json:"blanks"`
	Stats  map[int]int `json:"stats"`
}

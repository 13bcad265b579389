// Package expiry classifies expiry dates (insurance, registration, permits,
// ...) into the display buckets the dashboard renders.
//
// Classification is a pure function of the date and the evaluation time.
// Nothing here reads the clock: callers pass now explicitly so results are
// reproducible in tests. Missing or unparsable dates never produce an error;
// they classify as StatusUnknown so the UI can always render something.
package expiry

import (
	"errors"
	"strings"
	"time"
)

// Status is the expiry bucket a date falls into.
type Status string

const (
	StatusUnknown  Status = "unknown"
	StatusExpired  Status = "expired"
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusSafe     Status = "safe"
)

// Statuses lists every status from least to most severe, per Severity.
var Statuses = []Status{StatusSafe, StatusUnknown, StatusWarning, StatusCritical, StatusExpired}

// Threshold boundaries, in whole days, inclusive.
const (
	CriticalDays = 7
	WarningDays  = 30
)

// ErrMissingInput and ErrMalformedInput are returned by DaysLeft only.
// Classify folds both into StatusUnknown.
var (
	ErrMissingInput   = errors.New("expiry: date not recorded")
	ErrMalformedInput = errors.New("expiry: invalid date")
)

// Result is the immutable outcome of one classification.
// DaysLeft is nil for StatusUnknown.
type Result struct {
	Status     Status     `json:"status"`
	ColorClass ColorClass `json:"color_class"`
	Label      string     `json:"label"`
	DaysLeft   *int       `json:"days_left,omitempty"`
}

// Input is an optional date. The zero value is an absent date.
type Input struct {
	kind inputKind
	text string
	t    time.Time
}

type inputKind uint8

const (
	inputNone inputKind = iota
	inputText
	inputTime
	inputDate
)

// None returns an absent date.
func None() Input { return Input{} }

// FromString wraps a textual date. Blank strings are treated as absent.
func FromString(s string) Input {
	s = strings.TrimSpace(s)
	if s == "" {
		return Input{}
	}
	return Input{kind: inputText, text: s}
}

// FromTime wraps a time. The zero time is treated as absent.
func FromTime(t time.Time) Input {
	if t.IsZero() {
		return Input{}
	}
	return Input{kind: inputTime, t: t}
}

// FromTimePtr wraps a nullable time column.
func FromTimePtr(t *time.Time) Input {
	if t == nil {
		return Input{}
	}
	return FromTime(*t)
}

// FromDate wraps a nullable DATE column. Only the year, month and day of t
// are used, so a date decoded as UTC midnight keeps its calendar day in
// every zone.
func FromDate(t *time.Time) Input {
	if t == nil || t.IsZero() {
		return Input{}
	}
	return Input{kind: inputDate, t: *t}
}

// Present reports whether the input carries a value (valid or not).
func (in Input) Present() bool { return in.kind != inputNone }

// layouts are tried in order for textual input.
var layouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.DateTime,
	"2006-01-02T15:04:05",
}

// civilDate resolves the input to a calendar date in loc.
// Date-only strings name a civil date directly and are not shifted.
func (in Input) civilDate(loc *time.Location) (time.Time, error) {
	switch in.kind {
	case inputTime:
		return midnight(in.t.In(loc)), nil
	case inputDate:
		return midnight(in.t), nil
	case inputText:
		for _, layout := range layouts {
			t, err := time.ParseInLocation(layout, in.text, loc)
			if err != nil {
				continue
			}
			if layout == time.RFC3339Nano {
				t = t.In(loc)
			}
			return midnight(t), nil
		}
		return time.Time{}, ErrMalformedInput
	default:
		return time.Time{}, ErrMissingInput
	}
}

// midnight maps t to 00:00 UTC of its own calendar date, so differences
// between two results are exact multiples of a day.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysLeft returns the number of whole calendar days from now's date to the
// input's date, both taken in now's location. Positive means the date is in
// the future; zero means it is today.
func DaysLeft(in Input, now time.Time) (int, error) {
	date, err := in.civilDate(now.Location())
	if err != nil {
		return 0, err
	}
	today := midnight(now)
	return int(date.Unix()/secondsPerDay - today.Unix()/secondsPerDay), nil
}

// StatusFor buckets a day count. The first matching rule wins:
// negative is expired, up to CriticalDays is critical, up to WarningDays is
// warning, anything later is safe.
func StatusFor(daysLeft int) Status {
	switch {
	case daysLeft < 0:
		return StatusExpired
	case daysLeft <= CriticalDays:
		return StatusCritical
	case daysLeft <= WarningDays:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// Evaluate returns the status for in at now without building a label.
func Evaluate(in Input, now time.Time) Status {
	days, err := DaysLeft(in, now)
	if err != nil {
		return StatusUnknown
	}
	return StatusFor(days)
}

// Classify returns the status, color token, and English label for in at now.
func Classify(in Input, now time.Time) Result {
	return DefaultLabels.Classify(in, now)
}

// Severity orders statuses for "worst of" comparisons. Unknown ranks above
// safe so unrecorded dates surface, but below anything with a real deadline.
func Severity(s Status) int {
	switch s {
	case StatusExpired:
		return 4
	case StatusCritical:
		return 3
	case StatusWarning:
		return 2
	case StatusUnknown:
		return 1
	default:
		return 0
	}
}

// Worst returns the most severe status in ss, or StatusUnknown when ss is empty.
func Worst(ss ...Status) Status {
	if len(ss) == 0 {
		return StatusUnknown
	}
	worst := ss[0]
	for _, s := range ss[1:] {
		if Severity(s) > Severity(worst) {
			worst = s
		}
	}
	return worst
}

package expiry

import (
	"errors"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ColorClass is a presentation token the UI maps to a visual treatment.
type ColorClass string

const (
	ColorNeutral ColorClass = "neutral"
	ColorDanger  ColorClass = "danger"
	ColorCaution ColorClass = "caution"
	ColorOK      ColorClass = "ok"
)

// colorClasses is the status to token table. Expired and critical share
// ColorDanger: both render as high alert.
var colorClasses = map[Status]ColorClass{
	StatusUnknown:  ColorNeutral,
	StatusExpired:  ColorDanger,
	StatusCritical: ColorDanger,
	StatusWarning:  ColorCaution,
	StatusSafe:     ColorOK,
}

// ColorFor returns the color token for s.
func ColorFor(s Status) ColorClass {
	if c, ok := colorClasses[s]; ok {
		return c
	}
	return ColorNeutral
}

// Message keys. The English text doubles as the key.
const (
	msgNotRecorded   = "Not yet recorded"
	msgInvalidDate   = "Invalid date"
	msgExpired       = "Already expired"
	msgDaysRemaining = "%d days remaining"
)

// Supported lists the locales with translated labels. The first entry is the
// fallback.
var Supported = []language.Tag{language.English, language.Indonesian}

var translations = map[language.Tag]map[string]string{
	language.English: {
		msgNotRecorded:   msgNotRecorded,
		msgInvalidDate:   msgInvalidDate,
		msgExpired:       msgExpired,
		msgDaysRemaining: msgDaysRemaining,
	},
	language.Indonesian: {
		msgNotRecorded:   "Belum dicatat",
		msgInvalidDate:   "Tanggal tidak valid",
		msgExpired:       "Sudah kedaluwarsa",
		msgDaysRemaining: "%d hari lagi",
	},
}

var (
	labelCatalog = newCatalog()
	matcher      = language.NewMatcher(Supported)

	// DefaultLabels renders English labels.
	DefaultLabels = NewLabels(language.English)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("expiry: build label catalog: " + err.Error())
			}
		}
	}
	return b
}

// Labels classifies and renders labels in one locale.
// A Labels value is immutable and safe for concurrent use.
type Labels struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLabels returns a Labels for the closest supported match of tag.
func NewLabels(tag language.Tag) Labels {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	t := Supported[idx]
	return Labels{tag: t, printer: message.NewPrinter(t, message.Catalog(labelCatalog))}
}

// Locale returns the locale labels are rendered in.
func (l Labels) Locale() language.Tag { return l.tag }

// Classify returns the status, color token, and localized label for in at now.
func (l Labels) Classify(in Input, now time.Time) Result {
	days, err := DaysLeft(in, now)
	if err != nil {
		label := l.printer.Sprintf(msgNotRecorded)
		if errors.Is(err, ErrMalformedInput) {
			label = l.printer.Sprintf(msgInvalidDate)
		}
		return Result{
			Status:     StatusUnknown,
			ColorClass: ColorFor(StatusUnknown),
			Label:      label,
		}
	}

	status := StatusFor(days)
	label := l.printer.Sprintf(msgDaysRemaining, days)
	if status == StatusExpired {
		label = l.printer.Sprintf(msgExpired)
	}
	return Result{
		Status:     status,
		ColorClass: ColorFor(status),
		Label:      label,
		DaysLeft:   &days,
	}
}

// MatchLocale picks the best supported locale for an Accept-Language header
// value, or fallback when nothing matches.
func MatchLocale(acceptLanguage string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}

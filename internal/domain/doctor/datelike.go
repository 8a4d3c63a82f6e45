package doctor

import (
	"encoding/json"
	"time"
)

// DateLike is a calendar day recorded in one of the heterogeneous shapes the
// legacy data carries:
//
//   - a plain "YYYY-MM-DD" string
//   - a full timestamp string (RFC 3339, with or without offset)
//   - an object wrapping the string: {"date": "..."}
//   - an epoch-seconds object: {"seconds": 1700000000}
//
// The variant is tagged at unmarshal time so Normalize can match on it
// exhaustively instead of re-sniffing the raw JSON.
type DateLike struct {
	kind    dateKind
	str     string
	seconds int64
}

type dateKind int

const (
	dateInvalid dateKind = iota
	dateString
	dateWrapped
	dateEpoch
)

// NewDate returns a DateLike holding a plain date string.
func NewDate(s string) DateLike {
	return DateLike{kind: dateString, str: s}
}

// NewDateFromEpoch returns a DateLike holding epoch seconds.
func NewDateFromEpoch(seconds int64) DateLike {
	return DateLike{kind: dateEpoch, seconds: seconds}
}

func (d *DateLike) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = DateLike{kind: dateString, str: s}
		return nil
	}

	var obj struct {
		Date    *string `json:"date"`
		Seconds *int64  `json:"seconds"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		switch {
		case obj.Seconds != nil:
			*d = DateLike{kind: dateEpoch, seconds: *obj.Seconds}
			return nil
		case obj.Date != nil:
			*d = DateLike{kind: dateWrapped, str: *obj.Date}
			return nil
		}
	}

	// Unrecognized shape (null, number, array...): normalizes to "".
	*d = DateLike{kind: dateInvalid}
	return nil
}

// MarshalJSON emits the canonical form, so re-saved records converge on
// plain YYYY-MM-DD strings.
func (d DateLike) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Normalize())
}

// Normalize converts the entry to a canonical YYYY-MM-DD string using the
// entry's own encoded calendar date. Time of day and timezone offsets are
// discarded. Unrecognized input yields "", which callers must filter out
// before set membership. Normalizing an already-canonical string returns it
// unchanged.
func (d DateLike) Normalize() string {
	switch d.kind {
	case dateString, dateWrapped:
		return normalizeDateString(d.str)
	case dateEpoch:
		return time.Unix(d.seconds, 0).UTC().Format("2006-01-02")
	default:
		return ""
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func normalizeDateString(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

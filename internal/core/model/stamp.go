package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Stamp is a JSON scalar written either as epoch milliseconds or as a string.
// Older records carry locale-formatted date strings; newer ones carry numbers.
// Stamp values are comparable and usable as map keys.
type Stamp struct {
	millis int64
	text   string
	isText bool
}

func MillisStamp(ms int64) Stamp {
	return Stamp{millis: ms}
}

func TextStamp(s string) Stamp {
	return Stamp{text: s, isText: true}
}

func TimeStamp(t time.Time) Stamp {
	return MillisStamp(t.UnixMilli())
}

func (s Stamp) IsText() bool { return s.isText }

func (s Stamp) IsZero() bool { return !s.isText && s.millis == 0 }

// Millis returns the stamp as epoch milliseconds. Text stamps are parsed with
// ParseLegacyDate; text that does not parse yields 0.
func (s Stamp) Millis() int64 {
	if !s.isText {
		return s.millis
	}
	ms, _ := ParseLegacyDate(s.text)
	return ms
}

func (s Stamp) String() string {
	if s.isText {
		return s.text
	}
	return strconv.FormatInt(s.millis, 10)
}

func (s Stamp) MarshalJSON() ([]byte, error) {
	if s.isText {
		return json.Marshal(s.text)
	}
	return []byte(strconv.FormatInt(s.millis, 10)), nil
}

func (s *Stamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = Stamp{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = TextStamp(text)
		return nil
	}

	if ms, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*s = MillisStamp(ms)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("stamp: unsupported value %s", data)
	}
	*s = MillisStamp(int64(f))
	return nil
}

// Layouts accepted for legacy date strings: ISO 8601 as written by
// Date.toISOString, and the en-US Date.toLocaleString forms.
var legacyLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/2006, 15:04:05",
	"Mon Jan 02 2006 15:04:05",
}

// ParseLegacyDate parses a date string written by an older page version and
// returns epoch milliseconds. Locale forms without a zone are read in local
// time. It reports false for anything it cannot read.
func ParseLegacyDate(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Newer ICU data separates the AM/PM marker with a narrow no-break space.
	s = strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)

	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

package util

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderID builds the short order reference shown to customers: "MD"
// followed by the last five digits of the epoch-millisecond clock.
func GenerateOrderID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 5 {
		ms = ms[len(ms)-5:]
	}
	return "MD" + ms
}

// GenerateID returns a random unique identifier.
func GenerateID() string {
	return uuid.NewString()
}

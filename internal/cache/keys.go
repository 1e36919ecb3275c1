package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// SummaryKey identifies one analytics computation. The revision ties the
// entry to the event set it was computed from.
func SummaryKey(babyID string, from, to time.Time, zone string, revision int64) string {
	return makeKey(
		"summary",
		strings.TrimSpace(babyID),
		canonicalTime(from),
		canonicalTime(to),
		strings.TrimSpace(zone),
		strconv.FormatInt(revision, 10),
	)
}

func canonicalTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func makeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	h := sha1.Sum([]byte(joined))
	return hex.EncodeToString(h[:])
}

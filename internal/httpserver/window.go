package httpserver

import (
	"fmt"
	"strings"
	"time"
)

type windowQuery struct {
	BabyID string `form:"baby_id" binding:"required"`
	From   string `form:"from"`
	To     string `form:"to"`
}

type windowParser struct {
	loc       *time.Location
	maxWindow time.Duration
	now       func() time.Time
}

// parse resolves from/to query values. A missing to means the end of the
// current minute, so repeated default requests share a summary cache key; a
// missing from means the start of the calendar day defaultLookback-1 days
// before to. Inverted windows pass through so callers can answer with an
// empty result.
func (p windowParser) parse(q windowQuery) (time.Time, time.Time, error) {
	to := p.now().Truncate(time.Minute).Add(time.Minute - time.Nanosecond)
	if v := strings.TrimSpace(q.To); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("to must be an RFC3339 timestamp")
		}
		to = parsed
	}

	var from time.Time
	if v := strings.TrimSpace(q.From); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("from must be an RFC3339 timestamp")
		}
		from = parsed
	} else {
		local := to.In(p.loc)
		y, m, d := local.Date()
		from = time.Date(y, m, d-(defaultLookback-1), 0, 0, 0, 0, p.loc)
	}

	if to.Sub(from) > p.maxWindow {
		return time.Time{}, time.Time{}, fmt.Errorf("window must not exceed %s", p.maxWindow)
	}
	return from, to, nil
}

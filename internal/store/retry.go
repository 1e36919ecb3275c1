package store

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// writeRetry bounds how long an append waits out writer contention.
type writeRetry struct {
	attempts int
	base     time.Duration
	ceiling  time.Duration
}

var appendRetry = writeRetry{attempts: 4, base: 50 * time.Millisecond, ceiling: 500 * time.Millisecond}

// do runs op until it succeeds, fails permanently, runs out of attempts or
// ctx ends. The last error from op is returned, or ctx.Err() if the wait
// was cut short.
func (r writeRetry) do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if err = op(); err == nil || !isBusy(err) {
			return err
		}
		if attempt == r.attempts-1 {
			break
		}
		timer := time.NewTimer(r.wait(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

// wait doubles from base up to ceiling and adds up to base of jitter so
// concurrent writers do not retry in lockstep.
func (r writeRetry) wait(attempt int) time.Duration {
	d := min(r.base<<attempt, r.ceiling)
	if r.base > 0 {
		d += time.Duration(rand.Int63n(int64(r.base)))
	}
	return d
}

// sqliteCode returns the primary result code of a driver error, or -1.
func sqliteCode(err error) int {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return -1
	}
	return se.Code() & 0xff
}

// isBusy reports lock contention that WAL mode still surfaces under
// concurrent writers despite busy_timeout.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	switch sqliteCode(err) {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

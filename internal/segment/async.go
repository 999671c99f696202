package segment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nateprice/draftlog/internal/event"
)

// AnalyzeSession runs Analyze on its own goroutine so a large log does not
// block the caller, and converts any panic during segmentation into an
// error at this boundary: a malformed log must never take down the capture
// or export path, the raw log stays usable either way.
func AnalyzeSession(ctx context.Context, s *event.WritingSession, cfg Config, log zerolog.Logger) (Result, error) {
	type outcome struct {
		res Result
		err error
	}
	ch := make(chan outcome, 1)

	id := ""
	if s != nil {
		id = s.ID
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("session", id).Msg("analysis failed")
				ch <- outcome{err: fmt.Errorf("analysis failed: %v", r)}
			}
		}()
		ch <- outcome{res: Analyze(s, cfg)}
	}()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case o := <-ch:
		return o.res, o.err
	}
}

package stage

import (
	"context"
	"time"

	"github.com/inamate/stage/internal/engine"
)

// Loop ticks e every interval until ctx is done. Each frame advances by the
// wall time since the previous one; successful frames are handed to publish.
func Loop(ctx context.Context, e *engine.Engine, interval time.Duration, publish func(engine.FrameReport)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			report, err := e.Tick(float32(dt))
			if err != nil {
				// the engine already logged and counted it
				continue
			}
			if publish != nil {
				publish(report)
			}
		case <-ctx.Done():
			return
		}
	}
}

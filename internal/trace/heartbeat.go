package trace

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// StartHeartbeat emits a heartbeat every interval until ctx ends or stop is
// called, so a long VM run or a hung compilation stays visible in the
// trace. Each beat carries the goroutine count and live heap size. stop
// waits for the emitter to exit and may be called more than once.
func StartHeartbeat(ctx context.Context, tracer Tracer, interval time.Duration) (stop func()) {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				tracer.Emit(beat(now, n))
			}
		}
	}()
	return func() {
		cancel()
		<-exited
	}
}

func beat(now time.Time, n int) *Event {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return &Event{
		Time:   now,
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    goroutineID(),
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d goroutines=%d heap=%.1fMiB", n, runtime.NumGoroutine(), float64(ms.HeapAlloc)/(1<<20)),
	}
}

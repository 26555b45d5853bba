package runner

import (
	"time"

	"gtr/internal/domain"
)

// monitor drains the worker's message channel into the callback. The loop
// polls with a short timeout and continues until the worker process has
// exited and the channel is empty, then performs a final non-blocking
// drain so trailing messages are not dropped.
func (r *Runner) monitor(msgs chan domain.Message, exited <-chan struct{}, monitorDone chan<- struct{}) {
	defer close(monitorDone)

	alive := func() bool {
		select {
		case <-exited:
			return false
		default:
			return true
		}
	}

	for alive() || len(msgs) > 0 {
		select {
		case message, ok := <-msgs:
			if !ok {
				return
			}
			r.callback(message)
		case <-time.After(pollInterval):
			// Transient poll timeout; retry.
		}
	}

	// Final non-blocking drain.
	for {
		select {
		case message, ok := <-msgs:
			if !ok {
				return
			}
			r.callback(message)
		default:
			return
		}
	}
}

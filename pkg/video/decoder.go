package video

// Decoder produces frames into a FrameSink from its own goroutine, paced at
// the media's native frame rate. Looping is a decoder-level concern: a
// decoder keeps delivering frames past end-of-stream until stopped.
type Decoder interface {
	// Start begins delivering frames to sink. Idempotent while running; a
	// Start after Stop waits for the previous run to wind down before
	// launching a fresh one, so the old run can never feed a stale sink.
	Start(sink FrameSink) error
	// Stop requests the decode loop to halt. It does not wait for the loop
	// to exit; poll Running for quiescence. Idempotent.
	Stop()
	// Running reports whether the decode loop is still delivering frames.
	Running() bool
	// Close stops the decoder and releases its resources. Safe to call more
	// than once.
	Close()
}

// canStartRun gates a new decode run against the previous run's channels.
// A nil stopCh means no run has happened yet. An open stopCh means the
// previous run is still live, so Start must no-op. A closed stopCh means the
// previous run was stopped; canStartRun then blocks until its done channel
// closes, guaranteeing at most one pump exists at a time.
func canStartRun(stopCh, doneCh <-chan struct{}) bool {
	if stopCh == nil {
		return true
	}
	select {
	case <-stopCh:
		<-doneCh
		return true
	default:
		return false
	}
}

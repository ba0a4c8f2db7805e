package logger

// reset drops the process logger so the next Init rebuilds it.
func reset() {
	mu.Lock()
	instance = nil
	mu.Unlock()
}

package testutils

import (
	"runtime"
	"time"
)

type testLogger interface {
	Helper()
	Logf(format string, args ...any)
	Errorf(format string, args ...any)
}

// LeakCheck records the current number of goroutines and returns a function that fails t if
// more are still running once it is called. Call the returned function at the very end of the
// test, after every server is closed.
func LeakCheck(t testLogger) func() {
	before := runtime.NumGoroutine()
	return func() {
		t.Helper()
		var after int
		for n := 0; n < 20; n++ {
			// Connection goroutines wind down asynchronously after Close.
			after = runtime.NumGoroutine()
			if after <= before {
				return
			}
			time.Sleep(50 * time.Millisecond)
		}
		t.Errorf("goroutine leak: %d before, %d after", before, after)
	}
}

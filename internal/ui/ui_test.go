package ui

import (
	"sync"
	"testing"
)

// TestNopUIImplementsUI is a compile-time-flavored check that NopUI
// satisfies UI (TestConsoleImplementsUI does the same for Console); it also
// exercises every method so a future signature change is caught immediately.
func TestNopUIImplementsUI(t *testing.T) {
	var u UI = NopUI{}
	u.Println("hello")
	u.Problem("uh oh")
	u.SetProgressPhase("scanning")
	u.SetBytesTotal(100)
	u.IncrementBytesDone(10)
	u.ClearProgress()
}

func TestConsoleImplementsUI(t *testing.T) {
	var u UI = NewConsole()
	u.Println("hello")
	u.Problem("uh oh")
	u.SetProgressPhase("scanning")
	u.SetBytesTotal(100)
	u.IncrementBytesDone(10)
	u.ClearProgress()
}

// TestConsoleConcurrentIncrementBytesDone exercises the access pattern
// Validate's worker pool uses: many goroutines call IncrementBytesDone on
// a shared Console while progress is being read back out. Run with -race.
func TestConsoleConcurrentIncrementBytesDone(t *testing.T) {
	c := NewConsole()
	c.SetProgressPhase("validating")
	c.SetBytesTotal(800)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncrementBytesDone(100)
		}()
	}
	wg.Wait()
	c.ClearProgress()
}

// Package ui is the println/problem/progress collaborator that BlockDir and
// StoreFiles report through. All methods are side-effecting and may be
// stubbed out in tests with NopUI.
package ui

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// UI is the interface the core reports user-visible events through.
type UI interface {
	Println(msg string)
	Problem(msg string)
	SetProgressPhase(phase string)
	SetBytesTotal(total uint64)
	IncrementBytesDone(delta uint64)
	ClearProgress()
}

// Console writes Println/Problem lines with the teacher's own log.Printf
// idiom, and renders progress only when stdout is a terminal; redirected or
// piped output gets the plain lines with no progress noise.
//
// IncrementBytesDone is called concurrently by Validate's worker pool, so
// the progress fields are guarded by mu rather than left to the caller to
// serialize.
type Console struct {
	isTerminal bool

	mu    sync.Mutex
	phase string
	total uint64
	done  uint64
}

// NewConsole returns a Console bound to os.Stdout/os.Stderr.
func NewConsole() *Console {
	return &Console{isTerminal: isatty.IsTerminal(os.Stdout.Fd())}
}

func (c *Console) Println(msg string) {
	log.Print(msg)
}

func (c *Console) Problem(msg string) {
	log.Printf("problem: %s", msg)
}

func (c *Console) SetProgressPhase(phase string) {
	c.mu.Lock()
	c.phase = phase
	c.done = 0
	c.mu.Unlock()
	if c.isTerminal {
		fmt.Fprintf(os.Stderr, "%s...\n", phase)
	}
}

func (c *Console) SetBytesTotal(total uint64) {
	c.mu.Lock()
	c.total = total
	c.mu.Unlock()
}

func (c *Console) IncrementBytesDone(delta uint64) {
	c.mu.Lock()
	c.done += delta
	phase, done, total := c.phase, c.done, c.total
	c.mu.Unlock()
	if !c.isTerminal || total == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\r%s: %d/%d bytes", phase, done, total)
}

func (c *Console) ClearProgress() {
	c.mu.Lock()
	c.phase = ""
	c.total = 0
	c.done = 0
	c.mu.Unlock()
	if c.isTerminal {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
}

// NopUI discards every event; used by tests and library callers that don't
// want console output.
type NopUI struct{}

func (NopUI) Println(string)          {}
func (NopUI) Problem(string)          {}
func (NopUI) SetProgressPhase(string) {}
func (NopUI) SetBytesTotal(uint64)    {}
func (NopUI) IncrementBytesDone(uint64) {}
func (NopUI) ClearProgress()          {}

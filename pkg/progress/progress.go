/*
Package progress provides a single-line progress display for formatting
runs. The scheduler feeds it one event per finished file; the display
refreshes on a fixed cadence rather than per event.

The caller decides whether a display is wanted at all (interactive terminal,
no --no-progress flag); this package renders unconditionally to its writer.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/unifmt/unifmt/pkg/logger"
)

// Config holds the configuration for the progress display
type Config struct {
	// Width is the maximum render width (0 = auto-detect)
	Width int

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration
}

// Progress defines the interface for run progress display
type Progress interface {
	// Start begins the display for a run over total files
	Start(total int, message string)

	// Advance records one finished file
	Advance(item string)

	// Complete stops the display with a final success message
	Complete(message string)

	// Error stops the display with a final failure message
	Error(message string)

	// Stop stops the display without a final message
	Stop()
}

// IsSupportedTerminal reports whether w is an interactive terminal.
func IsSupportedTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	mu       sync.Mutex
	total    int
	done     int
	current  string
	message  string
	active   bool
	stopChan chan struct{}
	doneChan chan struct{}
	width    int
}

// New creates a progress display writing to stderr.
func New(config Config, log logger.Logger) Progress {
	return NewWithWriter(config, os.Stderr, log)
}

// NewWithWriter creates a progress display writing to w.
func NewWithWriter(config Config, w io.Writer, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}

	p := &progress{
		config: config,
		log:    log,
		writer: w,
		width:  config.Width,
	}
	if p.width == 0 {
		p.width = detectWidth(w)
	}
	return p
}

func detectWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

func (p *progress) Start(total int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active {
		return
	}

	p.log.WithFields(logger.Fields{
		"total":   total,
		"message": message,
	}).Debug("Starting progress display")

	p.total = total
	p.done = 0
	p.message = message
	p.active = true
	p.stopChan = make(chan struct{})
	p.doneChan = make(chan struct{})

	go p.renderLoop()
}

func (p *progress) Advance(item string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.current = item
}

func (p *progress) Complete(message string) {
	p.finish(message)
}

func (p *progress) Error(message string) {
	p.finish(message)
}

func (p *progress) Stop() {
	p.finish("")
}

func (p *progress) finish(message string) {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.active = false
	stop := p.stopChan
	done := p.doneChan
	p.mu.Unlock()

	close(stop)
	<-done

	if message != "" {
		fmt.Fprintf(p.writer, "%s\n", message)
	}
}

func (p *progress) renderLoop() {
	defer close(p.doneChan)

	ticker := time.NewTicker(p.config.RefreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			p.clearLine()
			return
		case <-ticker.C:
			p.render()
		}
	}
}

func (p *progress) render() {
	p.mu.Lock()
	line := fmt.Sprintf("%s %d/%d %s", p.message, p.done, p.total, p.current)
	width := p.width
	p.mu.Unlock()

	if len(line) >= width {
		line = line[:width-1]
	}
	fmt.Fprintf(p.writer, "\r%s%s", line, strings.Repeat(" ", width-1-len(line)))
}

func (p *progress) clearLine() {
	fmt.Fprintf(p.writer, "\r%s\r", strings.Repeat(" ", p.width-1))
}

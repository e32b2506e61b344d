package progress

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/unifmt/unifmt/pkg/logger"
)

// syncBuffer makes bytes.Buffer safe for the render goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressRendersCounts(t *testing.T) {
	buf := &syncBuffer{}
	p := NewWithWriter(Config{Width: 60, RefreshRate: 5 * time.Millisecond}, buf, logger.Nop())

	p.Start(3, "Formatting")
	p.Advance("a.json")
	p.Advance("b.json")
	time.Sleep(30 * time.Millisecond)
	p.Complete("done")

	out := buf.String()
	assert.Contains(t, out, "2/3")
	assert.Contains(t, out, "done")
}

func TestProgressStopWithoutMessage(t *testing.T) {
	buf := &syncBuffer{}
	p := NewWithWriter(Config{Width: 60, RefreshRate: 5 * time.Millisecond}, buf, logger.Nop())

	p.Start(1, "Formatting")
	p.Stop()
	// Stopping twice is harmless.
	p.Stop()

	assert.NotContains(t, buf.String(), "done")
}

func TestProgressTruncatesToWidth(t *testing.T) {
	buf := &syncBuffer{}
	p := NewWithWriter(Config{Width: 20, RefreshRate: 5 * time.Millisecond}, buf, logger.Nop())

	p.Start(1, "Formatting a very long message that cannot fit")
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	for _, line := range bytes.Split([]byte(buf.String()), []byte("\r")) {
		assert.LessOrEqual(t, len(line), 20)
	}
}

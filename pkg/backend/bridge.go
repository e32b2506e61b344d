package backend

import (
	"fmt"
	"sync"
)

// Bridge is the callback surface of a delegated external formatter. All
// three callbacks are supplied by the embedder; the zero Bridge is unusable
// and a nil *Bridge means external-backed strategies are unavailable.
type Bridge struct {
	// Init prepares the external formatter with the given worker count and
	// returns the parser names it supports. It must succeed before either
	// format callback is invoked.
	Init func(threads int) ([]string, error)

	// FormatEmbedded formats a fragment embedded in primary-language source,
	// identified by its language tag.
	FormatEmbedded func(options map[string]any, tag, code string) (string, error)

	// FormatFile formats a whole file with the named parser.
	FormatFile func(options map[string]any, parser, filename, code string) (string, error)
}

// bridgeState guards the init-before-use protocol around a Bridge and
// remembers the supported parser set.
type bridgeState struct {
	bridge *Bridge

	mu          sync.Mutex
	initialized bool
	initErr     error
	supported   map[string]struct{}
}

func newBridgeState(bridge *Bridge) *bridgeState {
	return &bridgeState{bridge: bridge}
}

// available reports whether a bridge was supplied at all.
func (s *bridgeState) available() bool {
	return s != nil && s.bridge != nil
}

// ensureInit runs the bridge initializer once. Subsequent calls return the
// first outcome.
func (s *bridgeState) ensureInit(threads int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return s.initErr
	}
	s.initialized = true

	parsers, err := s.bridge.Init(threads)
	if err != nil {
		s.initErr = fmt.Errorf("external formatter init failed: %w", err)
		return s.initErr
	}

	s.supported = make(map[string]struct{}, len(parsers))
	for _, p := range parsers {
		s.supported[p] = struct{}{}
	}
	return nil
}

// supports reports whether the initialized bridge handles the named parser.
func (s *bridgeState) supports(parser string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.supported[parser]
	return ok
}

// formatFile delegates a whole file, enforcing init-before-use.
func (s *bridgeState) formatFile(threads int, options map[string]any, parser, filename, code string) (string, error) {
	if err := s.ensureInit(threads); err != nil {
		return "", err
	}
	if !s.supports(parser) {
		return "", fmt.Errorf("external formatter does not support parser %q", parser)
	}
	return s.bridge.FormatFile(options, parser, filename, code)
}

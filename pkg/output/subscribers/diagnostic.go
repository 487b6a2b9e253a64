package subscribers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yulinchen03/SAST-energy-monitor/pkg/output"
)

// DiagnosticSubscriber renders diagnostic events gated by the active
// verbosity level. Events above the configured level are dropped.
type DiagnosticSubscriber struct {
	writer   io.Writer
	maxLevel output.OutputLevel
}

// NewDiagnosticSubscriber creates a subscriber showing diagnostics up to and
// including maxLevel.
func NewDiagnosticSubscriber(writer io.Writer, maxLevel output.OutputLevel) *DiagnosticSubscriber {
	return &DiagnosticSubscriber{
		writer:   writer,
		maxLevel: maxLevel,
	}
}

// Name returns the subscriber identifier.
func (s *DiagnosticSubscriber) Name() string {
	return "diagnostic"
}

// ShouldHandle accepts only diagnostic events within the verbosity budget.
func (s *DiagnosticSubscriber) ShouldHandle(event output.OutputEvent) bool {
	return event.Type == output.EventDiag && event.Level <= s.maxLevel
}

// Handle renders a diagnostic line with sorted key=value metadata.
func (s *DiagnosticSubscriber) Handle(event output.OutputEvent) {
	if len(event.Metadata) == 0 {
		_, _ = fmt.Fprintf(s.writer, "[diag] %s\n", event.Message)
		return
	}

	keys := make([]string, 0, len(event.Metadata))
	for k := range event.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, event.Metadata[k]))
	}
	_, _ = fmt.Fprintf(s.writer, "[diag] %s %s\n", event.Message, strings.Join(pairs, " "))
}

package measure

import (
	"strings"

	"github.com/spf13/cast"
)

// EnergySummaryMarker is the literal substring EnergiBridge prints on its
// summary line.
const EnergySummaryMarker = "Energy consumption in joules:"

// OutputLine is one line of captured process output. EnergySummary tags the
// EnergiBridge summary line so renderers can highlight it; Text is always the
// line exactly as captured.
type OutputLine struct {
	Text          string
	EnergySummary bool
}

// TagOutput splits captured text into lines and tags every line carrying the
// energy summary marker. Line content is never altered.
func TagOutput(text string) []OutputLine {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.TrimRight(text, "\n"), "\n")
	lines := make([]OutputLine, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, OutputLine{
			Text:          l,
			EnergySummary: strings.Contains(l, EnergySummaryMarker),
		})
	}
	return lines
}

// ExtractJoules pulls the measured joule value out of captured output.
// The second return is false when no parseable summary line is present.
func ExtractJoules(text string) (float64, bool) {
	for _, line := range TagOutput(text) {
		if !line.EnergySummary {
			continue
		}
		rest := line.Text[strings.Index(line.Text, EnergySummaryMarker)+len(EnergySummaryMarker):]
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		value, err := cast.ToFloat64E(strings.TrimSuffix(fields[0], ","))
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}

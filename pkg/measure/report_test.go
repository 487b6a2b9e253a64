package measure

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagOutput(t *testing.T) {
	text := "scanning...\nEnergy consumption in joules: 42.5\ndone\n"

	lines := TagOutput(text)
	require.Len(t, lines, 3)

	require.Equal(t, "scanning...", lines[0].Text)
	require.False(t, lines[0].EnergySummary)

	require.Equal(t, "Energy consumption in joules: 42.5", lines[1].Text,
		"summary line text must not be altered")
	require.True(t, lines[1].EnergySummary)

	require.Equal(t, "done", lines[2].Text)
	require.False(t, lines[2].EnergySummary)
}

func TestTagOutputMarkerMidLine(t *testing.T) {
	lines := TagOutput("[RESULT] Energy consumption in joules: 3.14 sec: 1.2")
	require.Len(t, lines, 1)
	require.True(t, lines[0].EnergySummary)
	require.Equal(t, "[RESULT] Energy consumption in joules: 3.14 sec: 1.2", lines[0].Text)
}

func TestTagOutputEmpty(t *testing.T) {
	require.Nil(t, TagOutput(""))
}

func TestExtractJoules(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		want      float64
		wantFound bool
	}{
		{
			name:      "plain summary",
			text:      "Energy consumption in joules: 12.34",
			want:      12.34,
			wantFound: true,
		},
		{
			name:      "summary with trailing fields",
			text:      "Energy consumption in joules: 98.7 for 2.50 sec of execution",
			want:      98.7,
			wantFound: true,
		},
		{
			name:      "summary buried in scanner output",
			text:      "Run started\nIssue: [B602] subprocess call\nEnergy consumption in joules: 5.5\n",
			want:      5.5,
			wantFound: true,
		},
		{
			name:      "trailing comma stripped",
			text:      "Energy consumption in joules: 7.25, sampled at 100ms",
			want:      7.25,
			wantFound: true,
		},
		{
			name:      "no summary line",
			text:      "nothing measured here\n",
			wantFound: false,
		},
		{
			name:      "summary with unparseable value",
			text:      "Energy consumption in joules: n/a",
			wantFound: false,
		},
		{
			name:      "empty output",
			text:      "",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractJoules(tt.text)
			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				require.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

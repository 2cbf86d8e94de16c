package subtitle

import (
	"testing"

	"github.com/mgpai22/srtalign/internal/transcript"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00:00,000"},
		{3725.5, "01:02:05,500"},
		{59.999, "00:00:59,999"},
		{61.25, "00:01:01,250"},
		{3600, "01:00:00,000"},
		{36000.125, "10:00:00,125"},
		{0.0004, "00:00:00,000"},
		{100 * 3600, "100:00:00,000"},
	}

	for _, tt := range tests {
		got := FormatTimestamp(tt.seconds)
		if got != tt.expected {
			t.Errorf("FormatTimestamp(%v): expected %q, got %q", tt.seconds, tt.expected, got)
		}
	}
}

func TestFormatOptionalTimestamp(t *testing.T) {
	if got := FormatOptionalTimestamp(nil); got != "00:00:00,000" {
		t.Errorf("expected zero timestamp for nil, got %q", got)
	}
	if got := FormatOptionalTimestamp(transcript.Seconds(3725.5)); got != "01:02:05,500" {
		t.Errorf("expected 01:02:05,500, got %q", got)
	}
}

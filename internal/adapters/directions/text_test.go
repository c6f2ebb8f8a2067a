package directions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters int
		want   string
	}{
		{0, "0 ft"},
		{100, "328 ft"},
		{1609, "1.0 mi"},
		{12000, "7.5 mi"},
		{200000, "124 mi"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDistance(tt.meters), "meters=%d", tt.meters)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{30, "1 min"},
		{60, "1 min"},
		{1200, "20 mins"},
		{3600, "1 hour"},
		{3900, "1 hour 5 mins"},
		{7260, "2 hours 1 min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.seconds), "seconds=%d", tt.seconds)
	}
}

// pkg/schedule/crontab_test.go

package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testMarker = "# groundwork-memory-monitor"
	testLine   = "*/5 * * * * /usr/local/bin/groundwork inspect memory " + testMarker
)

func TestEnsureLine(t *testing.T) {
	tests := []struct {
		name        string
		crontab     string
		want        string
		wantChanged bool
	}{
		{
			name:        "empty crontab gains the line",
			crontab:     "",
			want:        testLine + "\n",
			wantChanged: true,
		},
		{
			name:        "line appended after existing entries",
			crontab:     "0 3 * * * /usr/bin/backup\n",
			want:        "0 3 * * * /usr/bin/backup\n" + testLine + "\n",
			wantChanged: true,
		},
		{
			name:        "identical line untouched",
			crontab:     testLine + "\n",
			want:        testLine + "\n",
			wantChanged: false,
		},
		{
			name:        "marked line with old schedule replaced in place",
			crontab:     "*/10 * * * * /usr/local/bin/groundwork inspect memory " + testMarker + "\n0 3 * * * /usr/bin/backup\n",
			want:        testLine + "\n0 3 * * * /usr/bin/backup\n",
			wantChanged: true,
		},
		{
			name:        "duplicate marked lines collapse to one",
			crontab:     testLine + "\n" + testLine + "\n",
			want:        testLine + "\n",
			wantChanged: true,
		},
		{
			name:        "blank lines and comments preserved",
			crontab:     "# managed by ops\n\n0 3 * * * /usr/bin/backup\n",
			want:        "# managed by ops\n\n0 3 * * * /usr/bin/backup\n" + testLine + "\n",
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := EnsureLine(tt.crontab, testLine, testMarker)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestEnsureLineIdempotent(t *testing.T) {
	first, changed := EnsureLine("0 3 * * * /usr/bin/backup\n", testLine, testMarker)
	assert.True(t, changed)

	second, changed := EnsureLine(first, testLine, testMarker)
	assert.False(t, changed)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(second, testMarker))
}

// pkg/monitor/memory.go
//
// Point-in-time memory sampling from /proc/meminfo, written as append-only
// log lines. The sampler is invoked from cron, so a single run reads once,
// appends once, and exits.

package monitor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/groundworklabs/groundwork/pkg/gw_io"
)

const meminfoPath = "/proc/meminfo"

// Sample is one memory reading. Values are in kilobytes as reported by the
// kernel.
type Sample struct {
	Taken       time.Time
	TotalKB     uint64
	AvailableKB uint64
	FreeKB      uint64
	UsedKB      uint64
	UsedPercent float64
}

// Read takes a sample from /proc/meminfo.
func Read() (Sample, error) {
	f, err := os.Open(meminfoPath)
	if err != nil {
		return Sample{}, cerr.Wrapf(err, "failed to open %s", meminfoPath)
	}
	defer f.Close()
	return parseMeminfo(f)
}

// parseMeminfo extracts the fields the sampler cares about. Lines look like
// "MemTotal:       16384256 kB".
func parseMeminfo(r io.Reader) (Sample, error) {
	s := Sample{Taken: time.Now()}
	fields := map[string]*uint64{
		"MemTotal":     &s.TotalKB,
		"MemAvailable": &s.AvailableKB,
		"MemFree":      &s.FreeKB,
	}
	seen := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() && seen < len(fields) {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}
		dst, ok := fields[strings.TrimSuffix(parts[0], ":")]
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return Sample{}, cerr.Wrapf(err, "malformed meminfo line %q", scanner.Text())
		}
		*dst = v
		seen++
	}
	if err := scanner.Err(); err != nil {
		return Sample{}, cerr.Wrap(err, "failed to read meminfo")
	}
	if s.TotalKB == 0 {
		return Sample{}, cerr.New("meminfo missing MemTotal")
	}

	s.UsedKB = s.TotalKB - s.AvailableKB
	s.UsedPercent = float64(s.UsedKB) / float64(s.TotalKB) * 100
	return s, nil
}

// Line renders the sample as one log line.
func (s Sample) Line() string {
	return fmt.Sprintf("%s total=%dkB used=%dkB available=%dkB used_pct=%.1f",
		s.Taken.Format(time.RFC3339), s.TotalKB, s.UsedKB, s.AvailableKB, s.UsedPercent)
}

// Append writes the sample to logPath, creating parent directories as
// needed.
func Append(rc *gw_io.RuntimeContext, s Sample, logPath string) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return cerr.Wrapf(err, "failed to create log directory for %s", logPath)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return cerr.Wrapf(err, "failed to open %s", logPath)
	}
	defer f.Close()

	if _, err := f.WriteString(s.Line() + "\n"); err != nil {
		return cerr.Wrapf(err, "failed to append to %s", logPath)
	}

	otelzap.Ctx(rc.Ctx).Debug("Recorded memory sample",
		zap.String("log", logPath),
		zap.Float64("used_pct", s.UsedPercent))
	return nil
}

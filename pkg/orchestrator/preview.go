// pkg/orchestrator/preview.go

package orchestrator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/syntax"
)

// PreviewCommands parses a shell unit and renders its top-level statements
// back as source, one string per statement, for dry-run display. Units that
// are not valid POSIX/bash shell return an error; callers should treat that
// as "no preview available", not as a unit failure.
func PreviewCommands(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cerr.Wrapf(err, "cannot open unit %s", path)
	}
	defer f.Close()

	parsed, err := syntax.NewParser().Parse(f, filepath.Base(path))
	if err != nil {
		return nil, cerr.Wrapf(err, "unit %s is not parseable shell", path)
	}

	printer := syntax.NewPrinter()
	cmds := make([]string, 0, len(parsed.Stmts))
	for _, stmt := range parsed.Stmts {
		var buf bytes.Buffer
		if err := printer.Print(&buf, stmt); err != nil {
			continue
		}
		cmds = append(cmds, strings.TrimSpace(buf.String()))
	}
	return cmds, nil
}

// pkg/orchestrator/resolver.go

package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
)

// defaultUnitNames is the canonical ordered unit set. The order is a
// dependency order: the deploy user and SSH access must exist before the
// host is locked down further, and the firewall must already allow the
// ports the web server will bind.
var defaultUnitNames = []string{
	"setup-deploy-user.sh",
	"harden-ssh.sh",
	"deploy-webserver.sh",
	"install-memory-monitor.sh",
}

// DefaultUnitNames returns a copy of the canonical ordered unit set.
func DefaultUnitNames() []string {
	names := make([]string, len(defaultUnitNames))
	copy(names, defaultUnitNames)
	return names
}

// Resolve turns the configured selection (or the default set) into a
// concrete ordered sequence of units. Bare names resolve against the script
// directory; references containing a path separator pass through unchanged.
// Existence is deliberately not checked here: a unit that does not exist
// surfaces as MISSING at execution time, not as a resolution error.
func Resolve(cfg RunConfig) []ProvisioningUnit {
	refs := cfg.SelectedUnits
	if len(refs) == 0 {
		refs = DefaultUnitNames()
	}

	dir := cfg.ScriptDir
	if dir == "" {
		dir = executableDir()
	}

	units := make([]ProvisioningUnit, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		path := ref
		if !strings.ContainsRune(ref, os.PathSeparator) {
			path = filepath.Join(dir, ref)
		}
		units = append(units, ProvisioningUnit{
			Name: unitName(ref),
			Path: path,
		})
	}
	return units
}

// unitName derives the display identifier from a unit reference.
func unitName(ref string) string {
	base := filepath.Base(ref)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

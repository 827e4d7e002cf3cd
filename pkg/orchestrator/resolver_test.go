package orchestrator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultSetOrder(t *testing.T) {
	t.Parallel()
	units := Resolve(RunConfig{ScriptDir: "/opt/groundwork/scripts"})

	require.Len(t, units, 4)
	assert.Equal(t, "setup-deploy-user", units[0].Name)
	assert.Equal(t, "harden-ssh", units[1].Name)
	assert.Equal(t, "deploy-webserver", units[2].Name)
	assert.Equal(t, "install-memory-monitor", units[3].Name)
	assert.Equal(t, "/opt/groundwork/scripts/setup-deploy-user.sh", units[0].Path)
}

func TestResolveBareNameAgainstScriptDir(t *testing.T) {
	t.Parallel()
	units := Resolve(RunConfig{
		ScriptDir:     "/srv/units",
		SelectedUnits: []string{"custom.sh"},
	})

	require.Len(t, units, 1)
	assert.Equal(t, "custom", units[0].Name)
	assert.Equal(t, "/srv/units/custom.sh", units[0].Path)
}

func TestResolveAbsolutePathPassesThrough(t *testing.T) {
	t.Parallel()
	abs := filepath.Join("/usr/local/lib", "special.sh")
	units := Resolve(RunConfig{
		ScriptDir:     "/srv/units",
		SelectedUnits: []string{abs},
	})

	require.Len(t, units, 1)
	assert.Equal(t, abs, units[0].Path)
	assert.Equal(t, "special", units[0].Name)
}

func TestResolveRelativePathWithSeparatorPassesThrough(t *testing.T) {
	t.Parallel()
	units := Resolve(RunConfig{
		ScriptDir:     "/srv/units",
		SelectedUnits: []string{"./local/thing.sh"},
	})

	require.Len(t, units, 1)
	assert.Equal(t, "./local/thing.sh", units[0].Path)
}

func TestResolveSkipsEmptyReferences(t *testing.T) {
	t.Parallel()
	units := Resolve(RunConfig{
		ScriptDir:     "/srv/units",
		SelectedUnits: []string{"a.sh", "  ", "", "b.sh"},
	})

	require.Len(t, units, 2)
	assert.Equal(t, "a", units[0].Name)
	assert.Equal(t, "b", units[1].Name)
}

func TestResolveDoesNotCheckExistence(t *testing.T) {
	t.Parallel()
	units := Resolve(RunConfig{
		ScriptDir:     t.TempDir(),
		SelectedUnits: []string{"definitely-not-there.sh"},
	})

	// Resolution must defer existence to execution time.
	require.Len(t, units, 1)
	assert.Equal(t, "definitely-not-there", units[0].Name)
}

func TestDefaultUnitNamesReturnsCopy(t *testing.T) {
	t.Parallel()
	names := DefaultUnitNames()
	names[0] = "mutated"
	assert.Equal(t, "setup-deploy-user.sh", DefaultUnitNames()[0])
}

package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	valid := []string{"deploy", "_svc", "web-ops", "a", "user2", "deploy_bot"}
	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), "expected %q to be valid", name)
	}

	invalid := []string{
		"", "Deploy", "1deploy", "-deploy", "de ploy", "deploy!",
		"waytoolongusernamethatexceedsthirtytwochars",
		"root;rm -rf /",
	}
	for _, name := range invalid {
		assert.Error(t, ValidateUsername(name), "expected %q to be rejected", name)
	}
}

func TestSudoersEntry(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "deploy ALL=(ALL) NOPASSWD:ALL\n", SudoersEntry("deploy"))
}

func TestExistsForKnownSystemUser(t *testing.T) {
	t.Parallel()
	assert.True(t, Exists("root"))
	assert.False(t, Exists("no-such-user-zzz"))
}

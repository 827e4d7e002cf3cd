// pkg/hardening/ssh_test.go

package hardening

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatchSSHConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		port    int
		want    []string
		absent  []string
	}{
		{
			name:    "empty config gets all directives appended",
			content: "",
			port:    22,
			want: []string{
				"Port 22",
				"PermitRootLogin no",
				"PasswordAuthentication no",
				"ChallengeResponseAuthentication no",
				"X11Forwarding no",
			},
		},
		{
			name:    "existing directive replaced in place",
			content: "Port 2222\nPermitRootLogin yes\n",
			port:    22,
			want:    []string{"Port 22", "PermitRootLogin no"},
			absent:  []string{"Port 2222", "PermitRootLogin yes"},
		},
		{
			name:    "commented directive replaced",
			content: "#PasswordAuthentication yes\n# PermitRootLogin prohibit-password\n",
			port:    22,
			want:    []string{"PasswordAuthentication no", "PermitRootLogin no"},
			absent:  []string{"#PasswordAuthentication yes"},
		},
		{
			name:    "custom port",
			content: "Port 22\n",
			port:    2202,
			want:    []string{"Port 2202"},
			absent:  []string{"Port 22\n"},
		},
		{
			name:    "directive name is case insensitive",
			content: "port 22\npermitrootlogin yes\n",
			port:    22,
			want:    []string{"Port 22", "PermitRootLogin no"},
		},
		{
			name:    "unrelated lines preserved",
			content: "ListenAddress 0.0.0.0\nMaxAuthTries 3\n",
			port:    22,
			want:    []string{"ListenAddress 0.0.0.0", "MaxAuthTries 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PatchSSHConfig(tt.content, tt.port)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, got, a)
			}
		})
	}
}

func TestPatchSSHConfigDuplicatesDisabled(t *testing.T) {
	content := "Port 22\nPort 2222\n"
	got := PatchSSHConfig(content, 22)

	assert.Equal(t, 1, strings.Count(got, "\nPort")+boolToInt(strings.HasPrefix(got, "Port")),
		"exactly one active Port directive")
	assert.Contains(t, got, "disabled by groundwork")
}

func TestPatchSSHConfigIdempotent(t *testing.T) {
	first := PatchSSHConfig("Port 22\nPermitRootLogin yes\n", 22)
	second := PatchSSHConfig(first, 22)
	assert.Equal(t, first, second)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

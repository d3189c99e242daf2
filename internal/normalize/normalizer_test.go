package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *Normalizer {
	return NewWithIdentity(NewAliasCatalog(), "kerem", "/home/kerem")
}

func TestNormalizeResolvesAliases(t *testing.T) {
	tests := []struct {
		alias     string
		canonical string
	}{
		{"create_folder", "folder_create"},
		{"mkdir", "folder_create"},
		{"klasör_oluştur", "folder_create"},
		{"touch", "file_create"},
		{"run_command", "terminal_execute"},
		{"command_run", "terminal_execute"},
		{"komut_çalıştır", "terminal_execute"},
		{"sepete_ekle", "browser_universal_add_to_cart"},
		{"folder_create", "folder_create"}, // canonical ids self-resolve
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		req := n.Normalize(map[string]any{"action": tt.alias})
		assert.Equal(t, tt.canonical, req.Action, "alias %q", tt.alias)
	}
}

func TestNormalizeUnknownActionPassesThrough(t *testing.T) {
	n := newTestNormalizer()
	req := n.Normalize(map[string]any{"action": "quantum_flux"})
	assert.Equal(t, "quantum_flux", req.Action)
}

func TestNormalizeFallsBackToTypeKey(t *testing.T) {
	n := newTestNormalizer()
	req := n.Normalize(map[string]any{"type": "create_file"})
	assert.Equal(t, "file_create", req.Action)
}

func TestNormalizeExpandsPathParams(t *testing.T) {
	n := newTestNormalizer()

	req := n.Normalize(map[string]any{
		"action": "folder_create",
		"params": map[string]any{
			"path":        "~/Desktop/projeler",
			"folder_name": "~notliteral", // not a path key prefix, untouched
		},
	})

	assert.Equal(t, "/home/kerem/Desktop/projeler", req.Params["path"])
	assert.Equal(t, "~notliteral", req.Params["folder_name"])
}

func TestNormalizeSubstitutesUserPlaceholders(t *testing.T) {
	n := newTestNormalizer()

	req := n.Normalize(map[string]any{
		"action": "file_create",
		"params": map[string]any{
			"path":      "/home/<kullanıcı_adı>/Desktop",
			"file_path": "/Users/<username>/notes.txt",
		},
	})

	assert.Equal(t, "/home/kerem/Desktop", req.Params["path"])
	assert.Equal(t, "/Users/kerem/notes.txt", req.Params["file_path"])
}

func TestNormalizePathTildeOnlyAtStart(t *testing.T) {
	n := newTestNormalizer()

	req := n.Normalize(map[string]any{
		"action": "file_create",
		"params": map[string]any{"path": "/tmp/backup~/file"},
	})

	// Mid-path tildes are legitimate filename characters.
	assert.Equal(t, "/tmp/backup~/file", req.Params["path"])

	req = n.Normalize(map[string]any{
		"action": "file_create",
		"params": map[string]any{"path": "~"},
	})
	assert.Equal(t, "/home/kerem", req.Params["path"])
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer()

	raw := map[string]any{
		"action": "create_folder",
		"params": map[string]any{"path": "~/work", "folder_name": "src"},
	}
	once := n.Normalize(raw)
	twice := n.NormalizeRequest(once)

	assert.Equal(t, once, twice)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	n := newTestNormalizer()

	params := map[string]any{"path": "~/work"}
	raw := map[string]any{"action": "folder_create", "params": params}
	n.Normalize(raw)

	assert.Equal(t, "~/work", params["path"])
}

func TestNormalizeMissingParams(t *testing.T) {
	n := newTestNormalizer()
	req := n.Normalize(map[string]any{"action": "system_info"})
	require.NotNil(t, req.Params)
	assert.Empty(t, req.Params)
}

func TestExpandCommand(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		in   string
		want string
	}{
		{"ls ~/Desktop", "ls /home/kerem/Desktop"},
		{"cp ~/a ~/b", "cp /home/kerem/a /home/kerem/b"},
		{"echo <username>", "echo kerem"},
		{"grep foo /var/log/syslog", "grep foo /var/log/syslog"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, n.ExpandCommand(tt.in), "command %q", tt.in)
	}
}

func TestCanonicalActionsSorted(t *testing.T) {
	catalog := NewAliasCatalog()
	ids := catalog.CanonicalActions()

	require.NotEmpty(t, ids)
	assert.Contains(t, ids, "terminal_execute")
	assert.Contains(t, ids, "multiple_actions")
	for i := 1; i < len(ids); i++ {
		assert.LessOrEqual(t, ids[i-1], ids[i], "canonical ids must be sorted")
	}
}

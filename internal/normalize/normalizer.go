package normalize

import (
	"os"
	"os/user"
	"strings"

	"github.com/kerem/aide/internal/models"
)

// userPlaceholders are the literal spellings models use for the current
// user's name inside paths.
var userPlaceholders = []string{"<kullanıcı_adı>", "<username>", "<user>"}

// pathKeys are the parameter names treated as path-like for placeholder and
// home directory substitution.
var pathKeys = map[string]bool{
	"path":        true,
	"file_path":   true,
	"folder_path": true,
	"dir_path":    true,
}

// Normalizer turns raw action candidates into canonical ActionRequests.
// It is stateless beyond the immutable catalog and the user identity
// resolved at construction time, so normalization is idempotent.
type Normalizer struct {
	catalog  *AliasCatalog
	username string
	homeDir  string
}

// New creates a Normalizer with the default alias catalog and the current
// process owner's identity.
func New() *Normalizer {
	username := os.Getenv("USER")
	if username == "" {
		if u, err := user.Current(); err == nil {
			username = u.Username
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}
	return NewWithIdentity(NewAliasCatalog(), username, home)
}

// NewWithIdentity creates a Normalizer with explicit identity values.
// Used by tests and by callers that resolve identity elsewhere.
func NewWithIdentity(catalog *AliasCatalog, username, homeDir string) *Normalizer {
	return &Normalizer{catalog: catalog, username: username, homeDir: homeDir}
}

// Catalog returns the normalizer's alias catalog.
func (n *Normalizer) Catalog() *AliasCatalog {
	return n.catalog
}

// Normalize converts one raw action candidate into a canonical
// ActionRequest. The action id is taken from the "action" key, falling back
// to "type"; unknown ids pass through unchanged.
func (n *Normalizer) Normalize(raw map[string]any) models.ActionRequest {
	action, _ := raw["action"].(string)
	if action == "" {
		action, _ = raw["type"].(string)
	}
	action = n.catalog.Resolve(action)

	params := map[string]any{}
	if rawParams, ok := raw["params"].(map[string]any); ok {
		for k, v := range rawParams {
			params[k] = v
		}
	}

	for key, value := range params {
		if !pathKeys[key] {
			continue
		}
		if s, ok := value.(string); ok {
			params[key] = n.expandPath(s)
		}
	}

	return models.NewActionRequest(action, params)
}

// NormalizeRequest re-normalizes a canonical ActionRequest. Applying it to an
// already-normalized request yields the same result.
func (n *Normalizer) NormalizeRequest(req models.ActionRequest) models.ActionRequest {
	raw := map[string]any{"action": req.Action, "params": req.Params}
	return n.Normalize(raw)
}

// expandPath substitutes user-identity placeholders and a leading ~ in a
// path value.
func (n *Normalizer) expandPath(path string) string {
	for _, placeholder := range userPlaceholders {
		path = strings.ReplaceAll(path, placeholder, n.username)
	}
	if path == "~" {
		return n.homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return n.homeDir + path[1:]
	}
	return path
}

// ExpandCommand substitutes user-identity placeholders and ~ occurrences in
// a shell command string. Commands keep the broader substitution since ~ can
// appear mid-argument.
func (n *Normalizer) ExpandCommand(command string) string {
	for _, placeholder := range userPlaceholders {
		command = strings.ReplaceAll(command, placeholder, n.username)
	}
	return strings.ReplaceAll(command, "~", n.homeDir)
}

// Package normalize converts raw action candidates into canonical
// ActionRequests: alias resolution against a static catalog plus user
// identity and home directory substitution in path parameters.
package normalize

import "sort"

// aliasTable maps every known alias spelling (including the natural-language
// and Turkish forms the models produce) to its canonical action id. Aliasing
// is data, not branching code: the catalog is built once and queried with a
// single exact-match lookup.
var aliasTable = map[string]string{
	// Folder operations
	"create_folder":   "folder_create",
	"createfolder":    "folder_create",
	"mkdir":           "folder_create",
	"klasör_oluştur":  "folder_create",
	"yeni_klasör":     "folder_create",

	// File creation
	"create_file":   "file_create",
	"createfile":    "file_create",
	"touch":         "file_create",
	"dosya_oluştur": "file_create",
	"yeni_dosya":    "file_create",

	// File deletion
	"delete_file": "file_delete",
	"deletefile":  "file_delete",
	"rm":          "file_delete",
	"dosya_sil":   "file_delete",

	// File reading
	"read_file": "file_read",
	"readfile":  "file_read",
	"cat":       "file_read",
	"dosya_oku": "file_read",

	// File writing
	"write_file": "file_write",
	"write":      "file_write",
	"dosya_yaz":  "file_write",

	// Terminal commands
	"terminal_run":   "terminal_execute",
	"command_run":    "terminal_execute",
	"run_command":    "terminal_execute",
	"exec":           "terminal_execute",
	"komut_çalıştır": "terminal_execute",

	// Browser operations
	"tarayıcıda_ara":   "browser_search",
	"search_on_site":   "browser_search",
	"site_arama":       "browser_search",
	"online_alışveriş": "browser_shop_online",
	"add_to_cart":      "browser_universal_add_to_cart",
	"sepete_ekle":      "browser_universal_add_to_cart",
	"kapsamlı_arama":   "browser_comprehensive_search",
}

// canonicalIDs is the set of action ids the normalizer recognizes as
// canonical. Each maps to itself in the catalog, so normalizing an already
// canonical request is a no-op.
var canonicalIDs = []string{
	"app_close",
	"app_list",
	"app_open",
	"browser_comprehensive_search",
	"browser_open",
	"browser_search",
	"browser_shop_online",
	"browser_universal_add_to_cart",
	"file_create",
	"file_delete",
	"file_list",
	"file_read",
	"file_write",
	"folder_create",
	"multiple_actions",
	"screen_capture",
	"screen_read_text",
	"system_info",
	"terminal_execute",
}

// AliasCatalog is an immutable alias → canonical-id mapping.
type AliasCatalog struct {
	aliases map[string]string
}

// NewAliasCatalog builds the default catalog. Every canonical id is included
// as an alias of itself.
func NewAliasCatalog() *AliasCatalog {
	aliases := make(map[string]string, len(aliasTable)+len(canonicalIDs))
	for alias, canonical := range aliasTable {
		aliases[alias] = canonical
	}
	for _, id := range canonicalIDs {
		aliases[id] = id
	}
	return &AliasCatalog{aliases: aliases}
}

// Resolve returns the canonical id for an alias. Unrecognized ids pass
// through unchanged: the catalog is open-world, and unknown actions are
// reported by the dispatcher rather than rejected here.
func (c *AliasCatalog) Resolve(action string) string {
	if canonical, ok := c.aliases[action]; ok {
		return canonical
	}
	return action
}

// CanonicalActions returns the sorted list of supported canonical ids,
// suitable for embedding in a corrective prompt.
func (c *AliasCatalog) CanonicalActions() []string {
	ids := make([]string, len(canonicalIDs))
	copy(ids, canonicalIDs)
	sort.Strings(ids)
	return ids
}

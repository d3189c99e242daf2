// Package permission provides the persisted permission registry consulted
// before dispatching actions. The registry is an external collaborator of the
// orchestration core: the dispatcher reads it, nothing in the turn loop
// mutates it.
package permission

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
)

// categories maps each permission category to the actions it governs.
// Actions outside every category are allowed by default (open world).
var categories = map[string][]string{
	"browser":  {"browser_open", "browser_navigate", "browser_click", "browser_read", "browser_search", "browser_shop_online", "browser_universal_add_to_cart", "browser_comprehensive_search"},
	"files":    {"file_read", "file_write", "file_create", "file_delete", "file_list", "folder_create"},
	"apps":     {"app_open", "app_close", "app_list"},
	"input":    {"keyboard_type", "mouse_move", "mouse_click"},
	"screen":   {"screen_capture", "screen_record", "screen_read_text"},
	"terminal": {"terminal_execute", "command_run"},
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS category_grants (
	category TEXT PRIMARY KEY,
	allowed  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS action_overrides (
	action  TEXT PRIMARY KEY,
	allowed INTEGER NOT NULL
);
`

// Store is the sqlite-backed permission registry. A flock guards the store
// directory so two agent processes cannot clobber each other's grants.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

// Open opens (or creates) the registry at dbPath. On first run every
// category is granted, matching the original agent's behavior.
func Open(dbPath string) (*Store, error) {
	var lock *flock.Flock
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create permission directory: %w", err)
		}
		lock = flock.New(dbPath + ".lock")
		if err := lock.Lock(); err != nil {
			return nil, fmt.Errorf("acquire permission lock: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, fmt.Errorf("open permission database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, fmt.Errorf("initialize permission schema: %w", err)
	}

	s := &Store{db: db, lock: lock}
	if err := s.grantDefaults(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database and the directory lock.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
	}
	return err
}

// grantDefaults inserts a grant for every category that has no record yet.
func (s *Store) grantDefaults() error {
	for category := range categories {
		_, err := s.db.Exec(
			`INSERT INTO category_grants (category, allowed) VALUES (?, 1)
			 ON CONFLICT(category) DO NOTHING`, category)
		if err != nil {
			return fmt.Errorf("grant default permission for %s: %w", category, err)
		}
	}
	return nil
}

// Allowed reports whether the action may be executed. Per-action overrides
// win over category grants; actions outside every category are allowed.
func (s *Store) Allowed(actionID string) bool {
	var allowed int
	err := s.db.QueryRow(`SELECT allowed FROM action_overrides WHERE action = ?`, actionID).Scan(&allowed)
	if err == nil {
		return allowed != 0
	}

	category := CategoryFor(actionID)
	if category == "" {
		return true
	}
	err = s.db.QueryRow(`SELECT allowed FROM category_grants WHERE category = ?`, category).Scan(&allowed)
	if err != nil {
		return true
	}
	return allowed != 0
}

// SetCategory grants or revokes a whole category.
func (s *Store) SetCategory(category string, allowed bool) error {
	if _, ok := categories[category]; !ok {
		return fmt.Errorf("unknown permission category: %s", category)
	}
	_, err := s.db.Exec(
		`INSERT INTO category_grants (category, allowed) VALUES (?, ?)
		 ON CONFLICT(category) DO UPDATE SET allowed = excluded.allowed`,
		category, boolToInt(allowed))
	if err != nil {
		return fmt.Errorf("set category permission: %w", err)
	}
	return nil
}

// SetAction grants or revokes a single action, overriding its category.
func (s *Store) SetAction(actionID string, allowed bool) error {
	_, err := s.db.Exec(
		`INSERT INTO action_overrides (action, allowed) VALUES (?, ?)
		 ON CONFLICT(action) DO UPDATE SET allowed = excluded.allowed`,
		actionID, boolToInt(allowed))
	if err != nil {
		return fmt.Errorf("set action permission: %w", err)
	}
	return nil
}

// Grant is one category's current permission state.
type Grant struct {
	Category string
	Allowed  bool
	Actions  []string
}

// Grants returns every category with its current grant state, sorted by
// category name.
func (s *Store) Grants() ([]Grant, error) {
	rows, err := s.db.Query(`SELECT category, allowed FROM category_grants ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list category grants: %w", err)
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var g Grant
		var allowed int
		if err := rows.Scan(&g.Category, &allowed); err != nil {
			return nil, fmt.Errorf("scan category grant: %w", err)
		}
		g.Allowed = allowed != 0
		g.Actions = append(g.Actions, categories[g.Category]...)
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// CategoryFor returns the permission category governing an action, or the
// empty string when the action is uncategorized.
func CategoryFor(actionID string) string {
	for category, actions := range categories {
		for _, a := range actions {
			if a == actionID {
				return category
			}
		}
	}
	return ""
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

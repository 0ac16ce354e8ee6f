// Package store persists the dashboard's workspace state: the external task
// collection plus the employee/crew/client reference entities. It is the
// surrounding application's side of the schedule sync boundary; the engine in
// internal/schedule never talks to SQLite directly.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deskplan/internal/model"
)

// DB is the in-memory workspace snapshot. It is loaded whole and saved whole;
// at dashboard scale a replace-all save inside one transaction is simple and
// safe.
type DB struct {
	Version int `json:"version"`
	// CurrentDate mirrors the shared selected date (see schedule.DateCursor).
	CurrentDate string         `json:"currentDate,omitempty"`
	NextIDs     map[string]int `json:"nextIds,omitempty"`

	Tasks           []model.Task           `json:"tasks"`
	Employees       []model.Employee       `json:"employees"`
	Crews           []model.Crew           `json:"crews"`
	Clients         []model.Client         `json:"clients"`
	ClientLocations []model.ClientLocation `json:"clientLocations"`
}

// Collection exposes a DB's task list as the schedule engine's external
// collection boundary (satisfies schedule.Collection).
type Collection struct {
	DB *DB
}

func (c Collection) Tasks() []model.Task      { return c.DB.Tasks }
func (c Collection) SetTasks(ts []model.Task) { c.DB.Tasks = ts }

type Store struct {
	Dir string
}

const localDirName = ".deskplan"

// DiscoverDir walks upward from start looking for a project-local .deskplan
// directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, localDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, localDirName), nil
}

func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("empty workspace name")
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return "", fmt.Errorf("invalid workspace name %q (allowed: a-z 0-9 - _)", name)
	}
	return name, nil
}

// ListWorkspaces returns the named workspaces under the config dir.
func ListWorkspaces() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(dir, "workspaces"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

// NextID returns a fresh prefixed random id (task-xxxxxxxx, emp-xxxxxxxx, …)
// that does not collide with any entity currently in db.
func (s Store) NextID(db *DB, prefix string) string {
	for i := 0; i < 10; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// crypto/rand failed or collided repeatedly; fall back to counters.
	if db.NextIDs == nil {
		db.NextIDs = map[string]int{}
	}
	db.NextIDs[prefix]++
	return fmt.Sprintf("%s-%d", prefix, db.NextIDs[prefix])
}

func (db *DB) FindTask(id string) (*model.Task, bool) {
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			return &db.Tasks[i], true
		}
	}
	return nil, false
}

func (db *DB) FindEmployee(id string) (*model.Employee, bool) {
	for i := range db.Employees {
		if db.Employees[i].ID == id {
			return &db.Employees[i], true
		}
	}
	return nil, false
}

func (db *DB) FindCrew(id string) (*model.Crew, bool) {
	for i := range db.Crews {
		if db.Crews[i].ID == id {
			return &db.Crews[i], true
		}
	}
	return nil, false
}

func (db *DB) FindClient(id string) (*model.Client, bool) {
	for i := range db.Clients {
		if db.Clients[i].ID == id {
			return &db.Clients[i], true
		}
	}
	return nil, false
}

func (db *DB) FindClientLocation(id string) (*model.ClientLocation, bool) {
	for i := range db.ClientLocations {
		if db.ClientLocations[i].ID == id {
			return &db.ClientLocations[i], true
		}
	}
	return nil, false
}

// AssigneeLabel resolves an assignment's assignee to a display name.
func (db *DB) AssigneeLabel(assigneeID, crewID *string) string {
	if assigneeID != nil {
		if e, ok := db.FindEmployee(*assigneeID); ok {
			return e.Name
		}
		return *assigneeID
	}
	if crewID != nil {
		if c, ok := db.FindCrew(*crewID); ok {
			return c.Name
		}
		return *crewID
	}
	return ""
}

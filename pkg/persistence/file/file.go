// Package file provides file-based persistence for local development and
// tests. Each record is one JSON document under the root directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stayops/stayops/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of the file system.
type Persistence struct {
	root       string
	mu         sync.RWMutex
	rules      *RuleRepository
	executions *ExecutionRepository
	tasks      *TaskRepository
	bookings   *BookingRepository
	issues     *IssueRepository
}

// NewPersistence creates a file persistence layer rooted at the given
// directory. Accepts both "file:///var/data" URLs and bare paths.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	p := &Persistence{root: cleanRoot}
	p.rules = &RuleRepository{p: p}
	p.executions = &ExecutionRepository{p: p}
	p.tasks = &TaskRepository{p: p}
	p.bookings = &BookingRepository{p: p}
	p.issues = &IssueRepository{p: p}

	return p
}

func (p *Persistence) Rules() persistence.RuleRepository { return p.rules }

func (p *Persistence) Executions() persistence.ExecutionRepository { return p.executions }

func (p *Persistence) Tasks() persistence.TaskRepository { return p.tasks }

func (p *Persistence) Bookings() persistence.BookingRepository { return p.bookings }

func (p *Persistence) Issues() persistence.IssueRepository { return p.issues }

// Close is a no-op for file persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// write stores one record as <root>/<kind>/<id>.json. Callers hold p.mu.
func (p *Persistence) write(kind, id string, record any) error {
	dir := filepath.Join(p.root, kind)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s directory: %w", kind, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", kind, id, err)
	}

	err = os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write %s %s: %w", kind, id, err)
	}

	return nil
}

// read loads one record; notFound is returned untouched when the file does
// not exist so repositories surface their own sentinel errors.
func (p *Persistence) read(kind, id string, record any, notFound error) error {
	data, err := os.ReadFile(filepath.Join(p.root, kind, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return notFound
		}

		return fmt.Errorf("failed to read %s %s: %w", kind, id, err)
	}

	err = json.Unmarshal(data, record)
	if err != nil {
		return fmt.Errorf("failed to unmarshal %s %s: %w", kind, id, err)
	}

	return nil
}

// ids lists the record IDs stored for one kind.
func (p *Persistence) ids(kind string) ([]string, error) {
	dir := filepath.Join(p.root, kind)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s files: %w", kind, err)
	}

	ids := make([]string, 0, len(files))
	for _, file := range files {
		ids = append(ids, strings.TrimSuffix(file, ".json"))
	}

	return ids, nil
}

func (p *Persistence) remove(kind, id string, notFound error) error {
	err := os.Remove(filepath.Join(p.root, kind, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return notFound
		}

		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}

	return nil
}

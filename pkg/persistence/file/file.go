// Package file provides file-based persistence for journeys and journey runs.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/versify/automation/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root        string
	journeyRepo *JourneyRepository
	runRepo     *RunRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:        cleanRoot,
		journeyRepo: NewJourneyRepository(cleanRoot),
		runRepo:     NewRunRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// JourneyRepository returns the journey repository implementation for file persistence.
func (fp *Persistence) JourneyRepository() persistence.JourneyRepository {
	return fp.journeyRepo
}

// RunRepository returns the journey run repository implementation for file persistence.
func (fp *Persistence) RunRepository() persistence.RunRepository {
	return fp.runRepo
}

func readDocument(path string, doc any) (bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is built from a validated identifier
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	err = json.Unmarshal(data, doc)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}

	return true, nil
}

// writeDocument writes through a temporary file so readers never observe a partial document.
func writeDocument(dir, id string, doc any) error {
	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", id, err)
	}

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write %s: %w", id, err)
	}

	err = os.Rename(tmp.Name(), filepath.Join(dir, id+".json"))
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write %s: %w", id, err)
	}

	return nil
}

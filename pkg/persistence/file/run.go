package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/versify/automation/pkg/models"
	"github.com/versify/automation/pkg/persistence"
)

// RunRepository handles journey run file operations. The mutex makes
// read-check-write atomic within one process only; separate processes
// sharing a directory are not coordinated.
type RunRepository struct {
	root string
	mu   sync.Mutex
	now  func() time.Time
}

// NewRunRepository creates a new journey run repository.
func NewRunRepository(root string) *RunRepository {
	return &RunRepository{root: root, now: time.Now}
}

func (rr *RunRepository) dir() string {
	return filepath.Join(rr.root, "journey_runs")
}

func (rr *RunRepository) path(id string) string {
	return filepath.Join(rr.dir(), id+".json")
}

// Create persists a new journey run.
func (rr *RunRepository) Create(_ context.Context, run *models.JourneyRun) (*models.JourneyRun, error) {
	created := persistence.InitRun(run, rr.now())

	err := persistence.ValidateID(created.ID)
	if err != nil {
		return nil, persistence.NewRunError("Create", created.ID, err)
	}

	rr.mu.Lock()
	defer rr.mu.Unlock()

	if _, err := os.Stat(rr.path(created.ID)); err == nil {
		return nil, persistence.NewRunError("Create", created.ID, persistence.ErrRunAlreadyExists)
	}

	err = writeDocument(rr.dir(), created.ID, created)
	if err != nil {
		return nil, persistence.NewRunError("Create", created.ID, err)
	}

	return created, nil
}

// Get retrieves a journey run by its ID.
func (rr *RunRepository) Get(_ context.Context, id string) (*models.JourneyRun, error) {
	return rr.read("Get", id)
}

func (rr *RunRepository) read(op, id string) (*models.JourneyRun, error) {
	err := persistence.ValidateID(id)
	if err != nil {
		return nil, persistence.NewRunError(op, id, err)
	}

	var run models.JourneyRun

	found, err := readDocument(rr.path(id), &run)
	if err != nil {
		return nil, persistence.NewRunError(op, id, err)
	}

	if !found {
		return nil, persistence.NewRunError(op, id, persistence.ErrRunNotFound)
	}

	return &run, nil
}

// Update merges the given fields into the stored run.
func (rr *RunRepository) Update(_ context.Context, id string, update models.RunUpdate) (*models.JourneyRun, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	run, err := rr.read("Update", id)
	if err != nil {
		return nil, err
	}

	err = persistence.CheckVersion(update.ExpectedVersion, run.Version)
	if err != nil {
		return nil, persistence.NewRunError("Update", id, err)
	}

	update.Apply(run)

	err = writeDocument(rr.dir(), id, run)
	if err != nil {
		return nil, persistence.NewRunError("Update", id, err)
	}

	return run, nil
}

// ListByJourney returns the runs of a journey, newest first.
func (rr *RunRepository) ListByJourney(_ context.Context, journeyID string) ([]*models.JourneyRun, error) {
	entries, err := os.ReadDir(rr.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.JourneyRun{}, nil
		}

		return nil, fmt.Errorf("failed to read journey runs directory: %w", err)
	}

	runs := make([]*models.JourneyRun, 0)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		run, err := rr.read("ListByJourney", strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// Skip invalid files
			continue
		}

		if run.Journey == journeyID {
			runs = append(runs, run)
		}
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].TimeStarted > runs[j].TimeStarted
	})

	return runs, nil
}

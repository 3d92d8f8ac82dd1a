package records

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/typed"
)

// caseNameLayout formats the default name of a case created without one.
const caseNameLayout = "2006-01-02 15:04:05"

// CaseManager creates, lists and deletes cases.
type CaseManager struct {
	cases  *typed.Collection[core.Case]
	config Config
}

// NewCaseManager creates a CaseManager over the cases collection of store.
func NewCaseManager(store core.RecordStore, config Config) *CaseManager {
	config = config.withDefaults()
	return &CaseManager{
		cases: typed.NewCollection[core.Case](store, core.KindCases, typed.Config{
			Strict: config.Strict,
			Logger: config.Logger,
		}),
		config: config,
	}
}

// Create stores a new case in front of the existing ones and returns it.
// A blank name is replaced by "Case Analysis <timestamp>".
func (m *CaseManager) Create(ctx context.Context, ownerID, name, imageRef string, detectedObjects []string, description string) (core.Case, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Case{}, fmt.Errorf("%w: case owner is required", core.ErrValidation)
	}

	id, err := m.config.NewID()
	if err != nil {
		return core.Case{}, fmt.Errorf("failed to generate case id: %w", err)
	}

	createdAt := m.config.now()
	if strings.TrimSpace(name) == "" {
		name = "Case Analysis " + createdAt.Format(caseNameLayout)
	}

	c := core.Case{
		ID:              id,
		OwnerID:         ownerID,
		Name:            name,
		ImageRef:        imageRef,
		DetectedObjects: append([]string{}, detectedObjects...),
		Description:     description,
		CreatedAt:       createdAt,
	}

	if err := m.cases.Prepend(ctx, c); err != nil {
		return core.Case{}, err
	}
	m.config.Logger.Debug("case created", "id", c.ID, "owner", ownerID, "objects", len(c.DetectedObjects))
	return c, nil
}

// ListFor returns the cases owned by ownerID, newest first.
func (m *CaseManager) ListFor(ctx context.Context, ownerID string) ([]core.Case, error) {
	return m.filter(ctx, ownerID, func(core.Case) bool { return true })
}

// Search returns the cases of ownerID whose name contains term, ignoring case.
// An empty term matches everything.
func (m *CaseManager) Search(ctx context.Context, ownerID, term string) ([]core.Case, error) {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(term))
	return m.filter(ctx, ownerID, func(c core.Case) bool {
		return strings.Contains(folder.String(c.Name), needle)
	})
}

// Get returns the case id if it belongs to ownerID.
func (m *CaseManager) Get(ctx context.Context, ownerID, id string) (core.Case, error) {
	owned, err := m.ListFor(ctx, ownerID)
	if err != nil {
		return core.Case{}, err
	}
	for _, c := range owned {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Case{}, fmt.Errorf("%w: case %s", core.ErrNotFound, id)
}

// DeleteByID removes the case with the given id. Deleting a missing case is a no-op.
func (m *CaseManager) DeleteByID(ctx context.Context, id string) error {
	removed, err := m.cases.RemoveFunc(ctx, func(c core.Case) bool { return c.ID == id })
	if err != nil {
		return err
	}
	if removed > 0 {
		m.config.Logger.Debug("case deleted", "id", id)
	}
	return nil
}

func (m *CaseManager) filter(ctx context.Context, ownerID string, keep func(core.Case) bool) ([]core.Case, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner is required", core.ErrValidation)
	}

	all, err := m.cases.Load(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]core.Case, 0, len(all))
	for _, c := range all {
		if c.OwnerID == ownerID && keep(c) {
			owned = append(owned, c)
		}
	}
	return owned, nil
}

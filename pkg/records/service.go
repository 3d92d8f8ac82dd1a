package records

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/detect"
)

// Service wires the managers to one record store.
type Service struct {
	Cases   *CaseManager
	Notes   *NoteManager
	Session *Session

	store  core.RecordStore
	config Config
}

// NewService creates a Service over store.
func NewService(store core.RecordStore, config Config) *Service {
	config = config.withDefaults()
	return &Service{
		Cases:   NewCaseManager(store, config),
		Notes:   NewNoteManager(store, config),
		Session: NewSession(store, config.Logger),
		store:   store,
		config:  config,
	}
}

// Store returns the underlying record store.
func (s *Service) Store() core.RecordStore {
	return s.store
}

// Upload remembers imageRef (a data URI or external reference) as the image
// awaiting analysis. Large images may fail with core.ErrQuotaExceeded.
func (s *Service) Upload(ctx context.Context, imageRef string) error {
	if strings.TrimSpace(imageRef) == "" {
		return fmt.Errorf("%w: image is required", core.ErrValidation)
	}
	return s.store.SetValue(ctx, core.KeyCurrentUpload, imageRef)
}

// CurrentUpload returns the image awaiting analysis, if any.
func (s *Service) CurrentUpload(ctx context.Context) (string, bool, error) {
	return s.store.GetValue(ctx, core.KeyCurrentUpload)
}

// ClearUpload forgets the image awaiting analysis.
func (s *Service) ClearUpload(ctx context.Context) error {
	return s.store.DeleteValue(ctx, core.KeyCurrentUpload)
}

// Detect runs the configured detector once against imageRef.
func (s *Service) Detect(ctx context.Context, imageRef string) (core.Detection, error) {
	return detect.Run(ctx, s.config.Detector, imageRef)
}

// Analyze runs the detector on the current upload and stores the outcome as a
// new case owned by ownerID. The upload is kept so it can be exported again.
func (s *Service) Analyze(ctx context.Context, ownerID, name string) (core.Case, error) {
	imageRef, ok, err := s.CurrentUpload(ctx)
	if err != nil {
		return core.Case{}, err
	}
	if !ok {
		return core.Case{}, fmt.Errorf("%w: nothing uploaded to analyze", core.ErrValidation)
	}

	detection, err := s.Detect(ctx, imageRef)
	if err != nil {
		return core.Case{}, err
	}
	s.config.Logger.Info("detection finished", "objects", len(detection.Objects))

	return s.Cases.Create(ctx, ownerID, name, imageRef, detection.Objects, detection.Description)
}

// Watch reports changes to the store's keys made by any process, when the
// backend supports it. Other backends fail with core.ErrValidation.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if w, ok := s.backend().(core.Watchable); ok {
		return w.Watch(ctx, pattern)
	}
	return nil, fmt.Errorf("%w: store cannot be watched", core.ErrValidation)
}

// Close releases the backend, if it holds resources.
func (s *Service) Close() error {
	if c, ok := s.backend().(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Service) backend() core.Backend {
	if b, ok := s.store.(interface{ Backend() core.Backend }); ok {
		return b.Backend()
	}
	return nil
}

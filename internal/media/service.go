package media

import (
	"context"
	"errors"
	"io"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/telemetry/metrics"
)

// Service validates and stores uploads, turning validation failures into
// field errors named after the form field.
type Service struct {
	validator *Validator
	store     *DiskStore
	metrics   *metrics.Manager
}

func NewService(validator *Validator, store *DiskStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		validator: validator,
		store:     store,
		metrics:   metricsManager,
	}
}

func (s *Service) Upload(ctx context.Context, kind Kind, field string, r io.Reader) (string, error) {
	format, content, err := s.validator.Validate(r)
	if err != nil {
		s.count(kind, "rejected")
		if errors.Is(err, ErrTooLarge) || errors.Is(err, ErrInvalidFormat) ||
			errors.Is(err, ErrInvalidImage) || errors.Is(err, ErrDimensionsTooLarge) {
			return "", apperr.Field(field, err.Error())
		}
		return "", apperr.Internal("read upload", err)
	}

	ref, err := s.store.Save(ctx, kind, format, content)
	if err != nil {
		s.count(kind, "failed")
		return "", apperr.Internal("store upload", err)
	}

	s.count(kind, "stored")
	return ref, nil
}

// Discard removes a previously stored file, ignoring references that are already gone.
func (s *Service) Discard(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	if err := s.store.Delete(ctx, ref); err != nil && !errors.Is(err, ErrFileNotFound) {
		return err
	}
	return nil
}

func (s *Service) count(kind Kind, result string) {
	if s.metrics != nil {
		s.metrics.CounterMediaUploads.WithLabelValues(string(kind), result).Inc()
	}
}

package storage

import (
	"context"
	"time"

	"github.com/schoolms/backend/internal/domain/shared"
)

// StubObjectStorage stands in when object storage is disabled.
// Writes and download links fail with FEATURE_DISABLED; nothing is ever stored.
type StubObjectStorage struct{}

// NewStubObjectStorage creates a StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{}
}

func (s *StubObjectStorage) Upload(context.Context, string, []byte, string) error {
	return shared.ErrFeatureDisabled
}

func (s *StubObjectStorage) GenerateDownloadURL(context.Context, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, shared.ErrFeatureDisabled
}

func (s *StubObjectStorage) ObjectExists(context.Context, string) (bool, error) {
	return false, nil
}

func (s *StubObjectStorage) DeleteObject(context.Context, string) error {
	return nil
}

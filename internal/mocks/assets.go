// internal/mocks/assets.go
package mocks

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, header)
	return args.String(0), args.Error(1)
}

func (m *MockAssetStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// MemoryAssetStore records saved files by URL.
type MemoryAssetStore struct {
	mu    sync.Mutex
	seq   int
	Files map[string]string // url -> original file name
}

func NewMemoryAssetStore() *MemoryAssetStore {
	return &MemoryAssetStore{Files: make(map[string]string)}
}

func (s *MemoryAssetStore) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	url := fmt.Sprintf("/Resources/Images/%d_%s", s.seq, header.Filename)
	s.Files[url] = header.Filename
	return url, nil
}

func (s *MemoryAssetStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.Files, url)
	return nil
}

func (s *MemoryAssetStore) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.Files[url]
	return ok
}

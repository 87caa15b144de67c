package azure

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// MockBlobStorageClient is an in-memory BlobStorage. It backs local runs
// without Azure credentials and the tests.
type MockBlobStorageClient struct {
	Storage      map[string][]byte
	ContentTypes map[string]string
	mu           sync.RWMutex
	logger       *zap.Logger
}

// NewMockBlobStorageClient creates a new in-memory blob store
func NewMockBlobStorageClient(logger *zap.Logger) *MockBlobStorageClient {
	return &MockBlobStorageClient{
		Storage:      make(map[string][]byte),
		ContentTypes: make(map[string]string),
		logger:       logger,
	}
}

// Upload stores a copy of data under blobName
func (c *MockBlobStorageClient) Upload(ctx context.Context, blobName string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if blobName == "" {
		return fmt.Errorf("blob name is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Storage[blobName] = bytes.Clone(data)
	c.ContentTypes[blobName] = contentType

	if c.logger != nil {
		c.logger.Debug("mock: blob uploaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return nil
}

// Download returns a copy of the stored blob
func (c *MockBlobStorageClient) Download(ctx context.Context, blobName string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage[blobName]
	if !exists {
		return nil, fmt.Errorf("blob %s: %w", blobName, model.ErrNotFound)
	}

	return bytes.Clone(data), nil
}

// DeletePrefix removes all blobs under prefix
func (c *MockBlobStorageClient) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if prefix == "" {
		return 0, fmt.Errorf("refusing to delete with an empty prefix")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := 0
	for name := range c.Storage {
		if strings.HasPrefix(name, prefix) {
			delete(c.Storage, name)
			delete(c.ContentTypes, name)
			deleted++
		}
	}

	return deleted, nil
}

// ListBlobs returns all blob names in sorted order
func (c *MockBlobStorageClient) ListBlobs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blobs := make([]string, 0, len(c.Storage))
	for name := range c.Storage {
		blobs = append(blobs, name)
	}
	sort.Strings(blobs)

	return blobs
}

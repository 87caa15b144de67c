package azure

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/vcscsvcscs/skincare-journal/pkg/model"
	"go.uber.org/zap"
)

// BlobStorageClient wraps the Azure Blob Storage SDK for a single container
type BlobStorageClient struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobStorageClient creates a new Azure Blob Storage client
func NewBlobStorageClient(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobStorageClient, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStorageClient{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Upload stores data under blobName
func (c *BlobStorageClient) Upload(ctx context.Context, blobName string, data []byte, contentType string) error {
	if blobName == "" {
		return fmt.Errorf("blob name is required")
	}

	_, err := c.client.UploadBuffer(ctx, c.containerName, blobName, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: toPtr(contentType)},
	})
	if err != nil {
		c.logger.Error("failed to upload blob",
			zap.String("container", c.containerName),
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload blob: %w", err)
	}

	c.logger.Info("blob uploaded",
		zap.String("container", c.containerName),
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	return nil
}

// Download reads a blob. A missing blob is reported as model.ErrNotFound.
func (c *BlobStorageClient) Download(ctx context.Context, blobName string) ([]byte, error) {
	resp, err := c.client.DownloadStream(ctx, c.containerName, blobName, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("blob %s: %w", blobName, model.ErrNotFound)
		}
		c.logger.Error("failed to download blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob data: %w", err)
	}

	return data, nil
}

// DeletePrefix removes every blob whose name starts with prefix and returns
// how many were deleted
func (c *BlobStorageClient) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if prefix == "" {
		return 0, fmt.Errorf("refusing to delete with an empty prefix")
	}

	deleted := 0
	pager := c.client.NewListBlobsFlatPager(c.containerName, &azblob.ListBlobsFlatOptions{
		Prefix: toPtr(prefix),
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("failed to list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			if _, err := c.client.DeleteBlob(ctx, c.containerName, *item.Name, nil); err != nil {
				if bloberror.HasCode(err, bloberror.BlobNotFound) {
					continue
				}
				return deleted, fmt.Errorf("failed to delete blob %s: %w", *item.Name, err)
			}
			deleted++
		}
	}

	c.logger.Info("blobs deleted",
		zap.String("container", c.containerName),
		zap.String("prefix", prefix),
		zap.Int("count", deleted),
	)

	return deleted, nil
}

func toPtr(s string) *string {
	return &s
}

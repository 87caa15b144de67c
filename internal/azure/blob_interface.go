package azure

import (
	"context"
)

// BlobStorage stores selfies and generated reports. Blob names are
// "<user_id>/<file>" so everything a user owns shares one prefix.
type BlobStorage interface {
	Upload(ctx context.Context, blobName string, data []byte, contentType string) error
	Download(ctx context.Context, blobName string) ([]byte, error)
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Ensure both implementations satisfy BlobStorage
var (
	_ BlobStorage = (*BlobStorageClient)(nil)
	_ BlobStorage = (*MockBlobStorageClient)(nil)
)

// UserBlobName builds the blob name of a file owned by a user
func UserBlobName(userID, filename string) string {
	return userID + "/" + filename
}

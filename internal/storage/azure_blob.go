package storage

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/rs/zerolog"

	"receiptscan/internal/logger"
)

// DefaultContainer is the blob container processed images land in.
const DefaultContainer = "imagens"

// AzureBlobUploader implements Uploader on Azure Blob Storage.
type AzureBlobUploader struct {
	client    *azblob.Client
	container string
	log       zerolog.Logger
}

// NewAzureBlobUploader creates an uploader from a storage account connection
// string. An empty container falls back to DefaultContainer.
func NewAzureBlobUploader(connectionString, container string) (*AzureBlobUploader, error) {
	const op = "NewAzureBlobUploader"

	if connectionString == "" {
		return nil, WrapStorageError(op, ErrMissingConnectionString, "")
	}
	if container == "" {
		container = DefaultContainer
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, WrapStorageError(op, err, "creating blob client")
	}

	return &AzureBlobUploader{
		client:    client,
		container: container,
		log:       logger.WithComponent("storage"),
	}, nil
}

// Upload writes the data as a block blob and returns its URL.
func (u *AzureBlobUploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	const op = "Upload"

	if len(data) == 0 {
		return "", WrapStorageError(op, ErrEmptyPayload, name)
	}

	if _, err := u.client.UploadBuffer(ctx, u.container, name, data, nil); err != nil {
		return "", WrapStorageError(op, err, name)
	}

	url := u.client.ServiceClient().NewContainerClient(u.container).NewBlobClient(name).URL()

	u.log.Debug().
		Str("container", u.container).
		Str("blob", name).
		Int("bytes", len(data)).
		Msg("Processed image uploaded")

	return url, nil
}

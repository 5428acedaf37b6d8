package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/IshratJahanEkra/BodyId/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrStorageNotConfigured is returned by the constructor when the Cloudinary
// credentials are missing from the environment.
var ErrStorageNotConfigured = errors.New("object storage is not configured")

// UploadedFile is the result of a successful upload: a public URL plus the
// storage-side identifier needed to delete the file later.
type UploadedFile struct {
	URL      string
	PublicID string
}

// FileStorage uploads byte buffers to an external object store.
type FileStorage interface {
	Upload(ctx context.Context, data []byte, folder string) (*UploadedFile, error)
	Destroy(ctx context.Context, publicID string) error
}

type cloudinaryStorage struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryStorage builds a FileStorage backed by Cloudinary. Missing
// credentials are an explicit constructor error rather than a nil client
// discovered at upload time.
func NewCloudinaryStorage(cfg config.CloudinaryConfig) (FileStorage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrStorageNotConfigured
	}

	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}

	return &cloudinaryStorage{client: client}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, data []byte, folder string) (*UploadedFile, error) {
	result, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return nil, err
	}

	return &UploadedFile{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

func (s *cloudinaryStorage) Destroy(ctx context.Context, publicID string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

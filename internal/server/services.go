package server

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/harborline/harborline/internal/server/auth"
	"github.com/harborline/harborline/internal/server/blob"
	"github.com/harborline/harborline/internal/server/content"
	"github.com/harborline/harborline/internal/server/email"
	"github.com/harborline/harborline/internal/server/geo"
	"github.com/harborline/harborline/internal/server/media"
)

type Services struct {
	Blobs         *blob.Store
	Uploads       *blob.Bucket
	ServiceImages *blob.Bucket
	Content       *content.Store
	Media         *media.Service
	Email         *email.EmailService
	Auth          *auth.AuthService
	Geo           geo.Geocoder
}

func NewServices(config *Config, db *sqlx.DB) (*Services, error) {
	blobStore, err := blob.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("create blob store: %w", err)
	}

	contentStore, err := content.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("create content store: %w", err)
	}

	return &Services{
		Blobs:         blobStore,
		Uploads:       blobStore.Bucket(blob.BucketUploads),
		ServiceImages: blobStore.Bucket(blob.BucketServices),
		Content:       contentStore,
		Media:         media.NewService(&config.Media),
		Email:         email.NewEmailService(&config.Email),
		Auth:          auth.NewAuthService(&config.Auth),
		Geo:           &geo.StaticGeocoder{Table: config.Geocode},
	}, nil
}

func (s *Services) Start(ctx context.Context) error {
	// media starts its cleanup worker
	if err := s.Media.Start(ctx); err != nil {
		return fmt.Errorf("start media service: %w", err)
	}
	return nil
}

func (s *Services) Shutdown(ctx context.Context) error {
	// drain pending blob cleanups before the process exits
	if err := s.Media.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop media service: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storefront/config"
)

// New builds the named disk ("local" or "s3") from configuration.
func New(ctx context.Context, name string) (Disk, error) {
	switch name {
	case "", "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", name)
	}
}

package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shopdesk/config"
)

// Connect builds the disk named by STORAGE_DISK ("local" or "s3").
func Connect(ctx context.Context) (Disk, error) {
	switch name := config.StorageDisk(); name {
	case "local":
		return NewLocal(config.StorageLocalRoot())
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown STORAGE_DISK %q (supported: local, s3)", name)
	}
}

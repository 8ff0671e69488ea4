package backup

import (
	"context"
	"time"
)

// Sink is a remote storage destination for delivery log backup files.
type Sink interface {
	// NewestBackupTime returns the creation time of the newest backup
	// file in the sink, or the zero time when the sink holds no backups.
	NewestBackupTime(ctx context.Context) (time.Time, error)
	// Upload stores one backup chunk under the given file name.
	Upload(ctx context.Context, fileName string, data []byte) error
}

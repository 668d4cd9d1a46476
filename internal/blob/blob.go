// Package blob stores uploaded item photos and hands back publicly
// resolvable URLs. Two drivers: a local directory served by this process
// under /uploads/, and an S3-compatible bucket (AWS S3 or MinIO).
package blob

import (
	"context"
	"fmt"
	"io"
)

// Drivers.
const (
	DriverFilesystem = "filesystem"
	DriverS3         = "s3"
)

// Store is the object storage contract. Upload writes the object under key
// and returns a public URL for it. Keys are never deduplicated here; callers
// must bring collision-free keys.
type Store interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// Config selects and configures a driver.
type Config struct {
	Driver string

	// Filesystem driver.
	Root    string // local directory for objects
	BaseURL string // external base URL of this server, e.g. http://host:8080

	// S3 driver. Credentials fall back to the default AWS chain when the
	// static pair is empty.
	S3Bucket    string
	S3Region    string
	S3Endpoint  string // optional, e.g. a MinIO endpoint
	S3AccessKey string
	S3SecretKey string
	S3PathStyle bool
}

// Open constructs the configured store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverFilesystem, "":
		return NewFilesystem(cfg.Root, cfg.BaseURL)
	case DriverS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

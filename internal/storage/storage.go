package storage

import (
	"context"
	"io"
)

// AssetStore abstracts access to the site's downloadable files (CV
// variants and similar). The local-filesystem implementation can be
// swapped for S3 / Cloudflare R2 without touching the handlers.
type AssetStore interface {
	// Open returns the named asset for reading, with its size in bytes.
	// name is a bare filename ("CV_Soumen-Roy.pdf"), never a path.
	Open(ctx context.Context, name string) (r io.ReadCloser, size int64, err error)

	// Put stores or replaces the named asset.
	Put(ctx context.Context, name string, data io.Reader) error
}

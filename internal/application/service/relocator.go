package service

import "context"

// Relocator moves remotely-hosted media into owned storage.
type Relocator interface {
	// Relocate downloads url and re-uploads it under pathPrefix with the
	// given filename, returning the stable storage path.
	Relocate(ctx context.Context, url string, pathPrefix string, filename string) (string, error)

	// Promote copies a privately stored asset to the public area and
	// returns the public path.
	Promote(ctx context.Context, path string) (string, error)

	// DeleteFolder removes every privately stored asset under the given
	// prefix.
	DeleteFolder(ctx context.Context, prefix string) error

	// DeletePublicFolder removes the published copies under the given
	// prefix, leaving the private originals alone.
	DeletePublicFolder(ctx context.Context, prefix string) error
}

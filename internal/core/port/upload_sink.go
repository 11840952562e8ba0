package port

import "context"

// UploadSink stores a blob with an external provider and returns its public URL.
// The platform only ever consumes the returned URL, never the storage mechanics.
type UploadSink interface {
	Upload(ctx context.Context, data []byte, contentType, folder, publicID string) (string, error)
}

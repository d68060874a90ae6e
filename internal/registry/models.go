package registry

import "time"

// Document represents one uploaded file tracked for the lifetime of the process.
// Documents are immutable after creation; they are only ever removed.
type Document struct {
	ID          string    // UUID assigned at upload time
	Filename    string    // Original client-supplied name (display only, not unique)
	StoragePath string    // Location of the persisted bytes on disk
	Content     string    // Decoded text, or a binary-file placeholder
	UploadedAt  time.Time // When the upload was accepted
}

package models

import "io"

// Upload is a file received from a client, not yet hosted.
type Upload struct {
	Filename    string    // Original file name
	ContentType string    // Declared MIME type
	Size        int64     // Declared size in bytes
	Content     io.Reader // File body
}

package domain

import "time"

// StoredFile describes a file persisted in the storage directory. The
// modification timestamp doubles as the creation time; there is no
// separate metadata store.
type StoredFile struct {
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"mimetype"`
	ModTime     time.Time `json:"-"`
}

// UploadResult is what a successful intake returns to the client.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
}

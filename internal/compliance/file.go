package compliance

import "time"

// File is a document uploaded to file storage for a deal. Label is the raw
// category tag set by the storage service; Category is filled by Classify.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Label      string    `json:"label"`
	Category   Category  `json:"category,omitempty"`
	StorageKey string    `json:"-"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

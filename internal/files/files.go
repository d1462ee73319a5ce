// Package files reads deal documents from object storage. Documents live
// under deals/{dealId}/ and carry their category label in object metadata.
package files

import (
	"io"
	"path"
	"strings"
)

const (
	metaCategory = "Category"
	metaFilename = "Filename"
)

// Object is an opened document ready to be streamed to a client.
type Object struct {
	Body        io.ReadCloser
	Name        string
	ContentType string
	Size        int64
}

// Prefix is the key prefix holding a deal's documents.
func Prefix(dealID string) string {
	return "deals/" + dealID + "/"
}

// objectKey resolves a file id inside the deal prefix. It rejects ids that
// could address another deal's objects.
func objectKey(dealID, fileID string) (string, bool) {
	if dealID == "" || fileID == "" || strings.Contains(dealID, "/") {
		return "", false
	}
	if strings.Contains(fileID, "/") || fileID == "." || fileID == ".." {
		return "", false
	}
	key := Prefix(dealID) + fileID
	if path.Clean(key) != key {
		return "", false
	}
	return key, true
}

// metadata looks up a user metadata value. Listings return keys with the
// X-Amz-Meta- prefix while stat calls strip it.
func metadata(meta map[string]string, name string) string {
	for k, v := range meta {
		k = strings.TrimPrefix(strings.ToLower(k), "x-amz-meta-")
		if k == strings.ToLower(name) {
			return v
		}
	}
	return ""
}

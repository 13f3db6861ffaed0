// Package export writes fetched comment payloads to local files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CommentsFileName returns the file name used for a user's post comments.
func CommentsFileName(userID, postID int) string {
	return fmt.Sprintf("user-%d-post-%d-comments.json", userID, postID)
}

// Writer writes export files into a single existing directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer rooted at dir; an empty dir means the working directory.
func NewWriter(dir string) *Writer {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// Dir reports the directory files are written to.
func (w *Writer) Dir() string { return w.dir }

// WriteComments writes data verbatim to the comments file of userID/postID,
// replacing any existing file. The directory is not created.
func (w *Writer) WriteComments(userID, postID int, data []byte) (string, error) {
	path := CommentsFileName(userID, postID)
	if w.dir != "." {
		path = filepath.Join(w.dir, path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write comments file: %w", err)
	}
	return path, nil
}

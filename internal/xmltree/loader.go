package xmltree

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// ErrNotEligible reports a path the loader refuses to parse.
var ErrNotEligible = errors.New("not an eligible document")

// Loader reads documents from a filesystem. Taking billy.Filesystem keeps
// callers testable against in-memory filesystems.
type Loader struct {
	fs billy.Filesystem
}

func NewLoader(fs billy.Filesystem) *Loader {
	return &Loader{fs: fs}
}

// IsEligible reports whether path names a file this loader would parse.
// Eligibility is by extension, ASCII case-insensitive.
func (l *Loader) IsEligible(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

// Load opens and parses the document at path.
func (l *Loader) Load(path string) (*Document, error) {
	if !l.IsEligible(path) {
		return nil, fmt.Errorf("load %s: %w", path, ErrNotEligible)
	}
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path)
}

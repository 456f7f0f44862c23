package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Pair holds the paths of a newly created up/down migration file pair
type Pair struct {
	Version  string
	UpPath   string
	DownPath string
}

// CreatePair scaffolds an empty up/down migration pair. The version prefix
// is a UTC timestamp so files sort in creation order.
func CreatePair(dir, name string) (*Pair, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	now := time.Now().UTC()
	version := now.Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	p := &Pair{
		Version:  version,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	header := fmt.Sprintf("-- %s\n-- created %s\n\n", name, now.Format(time.RFC3339))
	if err := os.WriteFile(p.UpPath, []byte(header), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(p.DownPath, []byte(header), 0o644); err != nil {
		_ = os.Remove(p.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return p, nil
}

// sanitizeName lowercases a migration name and collapses separators and
// non-alphanumeric characters into single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		case c == ' ' || c == '-' || c == '_':
			s := b.String()
			if len(s) > 0 && s[len(s)-1] != '_' {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// List returns the base names of all migration pairs in dir, derived from
// the .up.sql files. A missing directory yields an empty list.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			names = append(names, base)
		}
	}
	return names, nil
}

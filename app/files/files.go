package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath = errors.New("invalid file path")
	ErrNotFound    = errors.New("file not found")
	ErrOutsideBase = errors.New("path escapes base directory")
)

// Dir is a file store rooted at a base directory. Names handed to Read and
// Write are relative to that base and may never leave it.
type Dir struct {
	base string
}

func NewDir(base string) (*Dir, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory %q: %w", base, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory %q: %w", base, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat base directory %q: %w", base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base %q is not a directory", base)
	}
	return &Dir{base: resolved}, nil
}

func (d *Dir) Base() string {
	return d.base
}

// Sanitize validates a client supplied name. Absolute paths, ".." segments
// and anything outside [A-Za-z0-9._/-] are rejected.
func Sanitize(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidPath)
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: absolute path %q", ErrInvalidPath, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: parent reference in %q", ErrInvalidPath, name)
		}
	}
	for _, r := range name {
		if !allowed(r) {
			return "", fmt.Errorf("%w: character %q in %q", ErrInvalidPath, r, name)
		}
	}
	return name, nil
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-', r == '/':
		return true
	default:
		return false
	}
}

func (d *Dir) Read(name string) ([]byte, error) {
	clean, err := Sanitize(name)
	if err != nil {
		return nil, err
	}

	resolved, err := filepath.EvalSymlinks(filepath.Join(d.base, clean))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, fmt.Errorf("resolving %s: %w", clean, err)
	}
	if !d.contains(resolved) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideBase, clean)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", clean, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, clean)
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", clean, err)
	}
	return content, nil
}

func (d *Dir) Write(name string, content []byte) error {
	clean, err := Sanitize(name)
	if err != nil {
		return err
	}

	target := filepath.Join(d.base, clean)
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", clean, err)
	}
	resolvedParent, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return fmt.Errorf("resolving parent of %s: %w", clean, err)
	}
	if !d.contains(resolvedParent) {
		return fmt.Errorf("%w: %s", ErrOutsideBase, clean)
	}

	dest := filepath.Join(resolvedParent, filepath.Base(target))
	if info, err := os.Lstat(dest); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(dest)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("resolving %s: %w", clean, err)
		}
		// A dangling link cannot be checked, so it is refused.
		if err != nil || !d.contains(resolved) {
			return fmt.Errorf("%w: %s", ErrOutsideBase, clean)
		}
		dest = resolved
	}

	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", clean, err)
	}
	return nil
}

func (d *Dir) contains(path string) bool {
	rel, err := filepath.Rel(d.base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

package fileproxy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilePermSecure is the mode used for every file written by spam
const FilePermSecure = 0600

var (
	ErrPathEscapes = errors.New("path escapes its directory")
	ErrEmptyPath   = errors.New("empty path not allowed")
	ErrFileExists  = errors.New("file already exists")
)

// File is a FileProxy confined to its parent directory
type File struct {
	root *os.Root
	dir  string
	name string
}

// Open prepares a proxy for path. The file itself does not need to exist,
// but its directory does.
func Open(path string) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	dir, name := filepath.Split(absPath)
	if _, err := ValidateName(name); err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", dir, err)
	}

	return &File{
		root: root,
		dir:  filepath.Clean(dir),
		name: name,
	}, nil
}

// ValidateName checks that name is a plain local file name
func ValidateName(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyPath
	}

	// filepath.IsLocal rejects absolute paths, "..", reserved names etc.
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}

	cleanName := filepath.Clean(name)
	if cleanName != filepath.Base(cleanName) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, name)
	}

	return cleanName, nil
}

// Close releases the directory handle
func (f *File) Close() error {
	if f.root != nil {
		return f.root.Close()
	}
	return nil
}

// Name returns the base name of the file
func (f *File) Name() string {
	return f.name
}

// Path returns the absolute path of the file
func (f *File) Path() string {
	return filepath.Join(f.dir, f.name)
}

// Dir returns the absolute directory of the file
func (f *File) Dir() string {
	return f.dir
}

// Stat returns file info for the target
func (f *File) Stat() (os.FileInfo, error) {
	return f.root.Stat(f.name)
}

// Exists reports whether the target is an existing regular file
func (f *File) Exists() bool {
	info, err := f.root.Stat(f.name)
	return err == nil && info.Mode().IsRegular()
}

// IsEmpty reports whether the target has zero length
func (f *File) IsEmpty() (bool, error) {
	info, err := f.root.Stat(f.name)
	if err != nil {
		return false, err
	}
	return info.Size() == 0, nil
}

// ReadAll reads the whole file
func (f *File) ReadAll() ([]byte, error) {
	return f.root.ReadFile(f.name)
}

// WriteAll truncates and overwrites the file
func (f *File) WriteAll(data []byte) error {
	return f.root.WriteFile(f.name, data, FilePermSecure)
}

// Touch creates the file if it does not exist
func (f *File) Touch() error {
	file, err := f.root.OpenFile(f.name, os.O_CREATE|os.O_WRONLY, FilePermSecure)
	if err != nil {
		return err
	}
	return file.Close()
}

// CreateNew writes data to a file that must not exist yet
func (f *File) CreateNew(data []byte) error {
	file, err := f.root.OpenFile(f.name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, FilePermSecure)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, f.Path())
		}
		return err
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

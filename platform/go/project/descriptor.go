package project

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PackageDirectory is one source directory listed in the project descriptor.
type PackageDirectory struct {
	Path    string `json:"path"`
	Default bool   `json:"default,omitempty"`
}

// Descriptor is a loaded project descriptor. The original bytes are retained so the file
// can be restored exactly after a temporary modification.
type Descriptor struct {
	Path string

	original []byte
	mode     fs.FileMode
	fields   map[string]json.RawMessage
	dirs     []json.RawMessage
}

// LoadDescriptor reads and validates the descriptor at path.
func LoadDescriptor(path string) (*Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat project descriptor: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project descriptor: %w", err)
	}
	if err := ValidateDescriptor(data); err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode project descriptor: %w", err)
	}
	var dirs []json.RawMessage
	if err := json.Unmarshal(fields["packageDirectories"], &dirs); err != nil {
		return nil, fmt.Errorf("decode packageDirectories: %w", err)
	}

	return &Descriptor{
		Path:     path,
		original: data,
		mode:     info.Mode().Perm(),
		fields:   fields,
		dirs:     dirs,
	}, nil
}

// Original returns a copy of the bytes read from disk.
func (d *Descriptor) Original() []byte {
	out := make([]byte, len(d.original))
	copy(out, d.original)
	return out
}

// PackageDirectories lists the declared source directories.
func (d *Descriptor) PackageDirectories() ([]PackageDirectory, error) {
	out := make([]PackageDirectory, 0, len(d.dirs))
	for _, raw := range d.dirs {
		var pd PackageDirectory
		if err := json.Unmarshal(raw, &pd); err != nil {
			return nil, fmt.Errorf("decode package directory: %w", err)
		}
		out = append(out, pd)
	}
	return out, nil
}

// WithPackageDirectory returns the descriptor JSON with dir appended to packageDirectories.
// Every other field is carried over untouched.
func (d *Descriptor) WithPackageDirectory(dir string) ([]byte, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("package directory path is required")
	}
	existing, err := d.PackageDirectories()
	if err != nil {
		return nil, err
	}
	for _, pd := range existing {
		if filepath.Clean(pd.Path) == filepath.Clean(dir) {
			return nil, fmt.Errorf("package directory %q is already listed", dir)
		}
	}

	extra, err := json.Marshal(PackageDirectory{Path: dir})
	if err != nil {
		return nil, err
	}
	dirs := make([]json.RawMessage, 0, len(d.dirs)+1)
	dirs = append(dirs, d.dirs...)
	dirs = append(dirs, extra)

	encodedDirs, err := json.Marshal(dirs)
	if err != nil {
		return nil, fmt.Errorf("encode packageDirectories: %w", err)
	}

	fields := make(map[string]json.RawMessage, len(d.fields))
	for k, v := range d.fields {
		fields[k] = v
	}
	fields["packageDirectories"] = encodedDirs

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode project descriptor: %w", err)
	}
	return append(out, '\n'), nil
}

// Extend writes a copy of the descriptor that also lists dir. The returned restore func
// writes the original bytes back and must be called on every exit path.
func (d *Descriptor) Extend(dir string) (restore func() error, err error) {
	modified, err := d.WithPackageDirectory(dir)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(d.Path, modified, d.mode); err != nil {
		// a partial write may have happened; put the original back before reporting
		_ = d.Restore()
		return nil, fmt.Errorf("write project descriptor: %w", err)
	}
	return d.Restore, nil
}

// Restore writes the original descriptor bytes back to disk.
func (d *Descriptor) Restore() error {
	if err := os.WriteFile(d.Path, d.original, d.mode); err != nil {
		return fmt.Errorf("restore project descriptor: %w", err)
	}
	return nil
}

package project

import (
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

// Overlay pairs a scratch tree with a temporarily extended project descriptor.
// Close releases both and is safe to call on every exit path.
type Overlay struct {
	Scratch *Scratch

	descriptor *Descriptor
	restore    func() error
	closed     bool
}

// OpenOverlay loads the descriptor at descriptorPath and creates a scratch tree beside it.
// The descriptor is not modified until Attach is called.
func OpenOverlay(descriptorPath, prefix string) (*Overlay, error) {
	d, err := LoadDescriptor(descriptorPath)
	if err != nil {
		return nil, err
	}
	s, err := NewScratch(filepath.Dir(descriptorPath), prefix)
	if err != nil {
		return nil, err
	}
	return &Overlay{Scratch: s, descriptor: d}, nil
}

// Attach lists the scratch tree as an extra package directory in the descriptor.
func (o *Overlay) Attach() error {
	if o.restore != nil {
		return nil
	}
	restore, err := o.descriptor.Extend(o.Scratch.Name())
	if err != nil {
		return err
	}
	o.restore = restore
	return nil
}

// Close restores the original descriptor bytes and removes the scratch tree.
// Both steps run even when the first fails.
func (o *Overlay) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	var result *multierror.Error
	if o.restore != nil {
		if err := o.restore(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := o.Scratch.Remove(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

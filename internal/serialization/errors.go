package serialization

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned while reading a model file.
var (
	ErrChecksumMismatch   = errors.New("serialization: checksum mismatch, the file is corrupted")
	ErrInvalidMagic       = errors.New("serialization: not a recurrent model file")
	ErrUnsupportedVersion = errors.New("serialization: unsupported format version")
	ErrHeaderTooLarge     = errors.New("serialization: header too large")
	ErrTruncated          = errors.New("serialization: file ends early")
	ErrMissingTensor      = errors.New("serialization: layer tensor missing")
	ErrShapeMismatch      = errors.New("serialization: tensor shape disagrees with its layer")
)

// ValidationError describes a header that failed validation.
type ValidationError struct {
	Type    string // check that failed, e.g. "offset_overlap" or "layer_shape"
	Tensor  string // tensor involved, if any
	Tensor2 string // second tensor of an overlap
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Tensor2 != "":
		return fmt.Sprintf("%s: tensors %q and %q: %s", e.Type, e.Tensor, e.Tensor2, e.Details)
	case e.Tensor != "":
		return fmt.Sprintf("%s: tensor %q: %s", e.Type, e.Tensor, e.Details)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Details)
	}
}

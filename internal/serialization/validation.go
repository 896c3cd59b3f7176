package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits for untrusted files.
const (
	MaxHeaderSize    = 16 * 1024 * 1024
	MaxTensorCount   = 10_000
	MaxTensorNameLen = 256
	MaxLayers        = 1024
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all checks (default).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal skips the offset overlap scan.
	ValidationNormal
	// ValidationNone trusts the file.
	ValidationNone
)

// ValidateTensorOffsets checks for overlapping and out-of-bounds tensors.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{
				Type:    "negative_offset",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d, size=%d", t.Offset, t.Size),
			}
		}
		if t.Offset+t.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.Offset, t.Size, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if t.Offset+t.Size > next.Offset {
				return &ValidationError{
					Type:    "offset_overlap",
					Tensor:  t.Name,
					Tensor2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						t.Offset, t.Offset+t.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}
	return nil
}

// ValidateTensorName rejects empty, oversized and non-printable names.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Type: "invalid_name", Details: "empty tensor name"}
	case len(name) > MaxTensorNameLen:
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	case strings.ContainsAny(name, "/\\\x00"):
		return &ValidationError{Type: "invalid_name", Tensor: name, Details: "contains a separator or null byte"}
	}
	return nil
}

// ValidateHeader checks a decoded header against the size of the data
// section that follows it.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if len(h.Layers) == 0 || len(h.Layers) > MaxLayers {
		return &ValidationError{Type: "layer_count", Details: fmt.Sprintf("got %d layers", len(h.Layers))}
	}
	if len(h.Tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(h.Tensors), MaxTensorCount),
		}
	}
	for p, l := range h.Layers {
		if l.X <= 0 || l.N <= 0 || l.Y <= 0 {
			return &ValidationError{
				Type:    "layer_shape",
				Details: fmt.Sprintf("layer %d has X=%d N=%d Y=%d", p, l.X, l.N, l.Y),
			}
		}
	}
	for _, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		if t.DType != DTypeFloat64 {
			return &ValidationError{Type: "dtype", Tensor: t.Name, Details: fmt.Sprintf("unsupported dtype %q", t.DType)}
		}
		if len(t.Shape) != 2 || int64(t.Shape[0])*int64(t.Shape[1])*8 != t.Size {
			return &ValidationError{Type: "shape", Tensor: t.Name, Details: fmt.Sprintf("shape %v does not match size %d", t.Shape, t.Size)}
		}
	}
	if level == ValidationStrict {
		return ValidateTensorOffsets(h.Tensors, dataSize)
	}
	return nil
}

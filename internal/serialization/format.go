package serialization

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/train"
)

// Format constants.
const (
	MagicBytes      = "RNNL"
	FormatVersion   = 1
	HeaderAlignment = 64   // tensor data starts on a 64-byte boundary
	FixedHeaderSize = 64   // magic, version, flags, sizes and checksum
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // checksum position in the fixed header

	DTypeFloat64 = "float64"
)

// Flags stored in the fixed header.
const (
	FlagHasOptimizer uint32 = 1 << 0 // optimizer moments included
	FlagHasProgress  uint32 = 1 << 1 // training position included
)

// Header is the JSON header of a checkpoint file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Features      int               `json:"features"`
	Layers        []LayerMeta       `json:"layers"`
	Tensors       []TensorMeta      `json:"tensors"`
	Config        train.Config      `json:"config"`
	Vocab         json.RawMessage   `json:"vocab,omitempty"`
	Progress      *train.Progress   `json:"progress,omitempty"`
	Optimizer     string            `json:"optimizer,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// LayerMeta describes the shape and output stage of one layer.
type LayerMeta struct {
	X           int           `json:"x"`
	N           int           `json:"n"`
	Y           int           `json:"y"`
	Softmax     bool          `json:"softmax"`
	Temperature float64       `json:"temperature"`
	Activation  nn.Activation `json:"activation"`
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // e.g. "layer.0.Wf", "layer.0.m.bf"
	DType  string `json:"dtype"`  // always "float64"
	Shape  []int  `json:"shape"`  // [rows, cols]
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes
}

// Tensor groups stored per layer.
const (
	groupParams = ""
	groupM      = "m."
	groupR      = "r."
)

func tensorName(layer int, group, param string) string {
	return fmt.Sprintf("layer.%d.%s%s", layer, group, param)
}

// ComputeChecksum computes SHA-256 checksum of data.
func ComputeChecksum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum returns ErrChecksumMismatch if the checksums differ.
func ValidateChecksum(computed, stored [32]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}

// alignedHeaderSize returns the JSON header size including padding.
func alignedHeaderSize(n int64) int64 {
	pos := FixedHeaderSize + n
	padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
	return n + padding
}

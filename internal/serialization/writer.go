package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/nn"
	"github.com/born-ml/recurrent/internal/train"
	"github.com/born-ml/recurrent/internal/vocab"
)

// Model is everything a checkpoint file holds.
type Model struct {
	Stack    *lstm.Stack
	Vocab    vocab.Vocab     // optional
	Config   train.Config    // configuration the stack was trained with
	Progress *train.Progress // optional, set for resumable checkpoints
	Metadata map[string]string
}

// SaveOptions configures Write and Save.
type SaveOptions struct {
	// WithOptimizer stores the per-layer optimizer moments so a resumed
	// run continues with the same Adam or momentum state.
	WithOptimizer bool
}

// Save writes m to path. The file is written under a temporary name and
// renamed into place, so an interrupted save never leaves a torn file.
func Save(path string, m *Model, opts SaveOptions) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".tmp*")
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // no-op after a successful rename

	if err := Write(tmp, m, opts); err != nil {
		_ = tmp.Close()
		return errors.WithMessagef(err, "writing %q", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %q", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "renaming checkpoint to %q", path)
}

// layerGroups returns the tensor groups of one layer in file order.
func layerGroups(cell *lstm.Cell, withOptimizer bool) map[string]*lstm.Params {
	groups := map[string]*lstm.Params{groupParams: cell.Params}
	if withOptimizer {
		groups[groupM] = cell.M
		groups[groupR] = cell.R
	}
	return groups
}

var groupOrder = []string{groupParams, groupM, groupR}

// Write encodes m to w.
//
//nolint:gocyclo,cyclop // Sequential binary layout.
func Write(w io.Writer, m *Model, opts SaveOptions) error {
	if m == nil || m.Stack == nil {
		return errors.New("serialization: nil model")
	}
	if err := m.Stack.Validate(); err != nil {
		return err
	}

	header := Header{
		FormatVersion: FormatVersion,
		CreatedAt:     time.Now().UTC(),
		Features:      m.Stack.Features,
		Config:        m.Config,
		Progress:      m.Progress,
		Metadata:      m.Metadata,
	}
	if opts.WithOptimizer {
		header.Optimizer = m.Config.Optimizer.String()
	}
	if m.Vocab != nil {
		raw, err := vocab.Marshal(m.Vocab)
		if err != nil {
			return err
		}
		header.Vocab = raw
	}

	var data bytes.Buffer
	var offset int64
	buf := make([]byte, 8)
	for p, cell := range m.Stack.Layers {
		header.Layers = append(header.Layers, LayerMeta{
			X:           cell.X(),
			N:           cell.N(),
			Y:           cell.Y(),
			Softmax:     cell.Softmax,
			Temperature: cell.Temperature,
			Activation:  cell.Activation,
		})

		groups := layerGroups(cell, opts.WithOptimizer)
		for _, g := range groupOrder {
			params, ok := groups[g]
			if !ok {
				continue
			}
			for _, t := range params.Tensors() {
				size := int64(t.Len()) * 8
				header.Tensors = append(header.Tensors, TensorMeta{
					Name:   tensorName(p, g, t.Name()),
					DType:  DTypeFloat64,
					Shape:  []int{t.Rows(), t.Cols()},
					Offset: offset,
					Size:   size,
				})
				for _, v := range t.Data() {
					binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
					data.Write(buf)
				}
				offset += size
			}
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	var flags uint32
	if opts.WithOptimizer {
		flags |= FlagHasOptimizer
	}
	if m.Progress != nil {
		flags |= FlagHasProgress
	}

	padded := alignedHeaderSize(int64(len(headerJSON)))
	checksum := ComputeChecksum(data.Bytes())

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0x00:0x04], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[0x04:0x08], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[0x08:0x0C], flags)
	binary.LittleEndian.PutUint64(fixed[0x10:0x18], uint64(padded))     //nolint:gosec // G115: bounded by MaxHeaderSize.
	binary.LittleEndian.PutUint64(fixed[0x18:0x20], uint64(data.Len())) //nolint:gosec // G115: length is never negative.
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return errors.Wrap(err, "failed to write fixed header")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if pad := padded - int64(len(headerJSON)); pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return errors.Wrap(err, "failed to write padding")
		}
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return errors.Wrap(err, "failed to write tensor data")
	}
	return nil
}

// layerFromMeta allocates a zero-weight cell with the recorded shape.
func layerFromMeta(l LayerMeta) *lstm.Cell {
	return lstm.NewCell(lstm.CellConfig{
		X:           l.X,
		N:           l.N,
		Y:           l.Y,
		Softmax:     l.Softmax,
		Temperature: l.Temperature,
		Activation:  l.Activation,
		Zero:        true,
	}, nil)
}

// decodeTensor fills dst from little-endian float64 bytes.
func decodeTensor(dst *nn.Parameter, src []byte) {
	data := dst.Data()
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:]))
	}
}

package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/vocab"
)

// ReaderOptions configures Read.
type ReaderOptions struct {
	SkipChecksumValidation bool
	ValidationLevel        ValidationLevel
}

// Load reads a checkpoint with strict validation.
func Load(path string) (*Model, error) {
	return LoadWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// LoadWithOptions reads a checkpoint with custom options.
func LoadWithOptions(path string, opts ReaderOptions) (*Model, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() { _ = f.Close() }()

	m, err := Read(f, opts)
	return m, errors.WithMessagef(err, "loading %q", path)
}

// Read decodes a checkpoint from r.
//
//nolint:gocyclo,cyclop // Sequential binary layout.
func Read(r io.Reader, opts ReaderOptions) (*Model, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, errors.Wrap(ErrTruncated, err.Error())
	}
	if string(fixed[0x00:0x04]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(fixed[0x04:0x08])
	if version != FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "got %d, expected %d", version, FormatVersion)
	}
	flags := binary.LittleEndian.Uint32(fixed[0x08:0x0C])
	headerSize := binary.LittleEndian.Uint64(fixed[0x10:0x18])
	dataSize := binary.LittleEndian.Uint64(fixed[0x18:0x20])
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, errors.Wrap(ErrTruncated, "reading header")
	}
	headerBytes = bytes.TrimRight(headerBytes, "\x00")

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, errors.Wrap(err, "failed to parse header JSON")
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(dataSize))) //nolint:gosec // G115: checked below.
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tensor data")
	}
	if uint64(len(data)) != dataSize {
		return nil, errors.Wrapf(ErrTruncated, "data section has %d of %d bytes", len(data), dataSize)
	}
	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
			return nil, err
		}
	}
	if err := ValidateHeader(&header, int64(len(data)), opts.ValidationLevel); err != nil {
		return nil, errors.WithMessage(err, "validation failed")
	}

	tensors := make(map[string]TensorMeta, len(header.Tensors))
	for _, t := range header.Tensors {
		tensors[t.Name] = t
	}

	stack := &lstm.Stack{Features: header.Features}
	for p, l := range header.Layers {
		cell := layerFromMeta(l)
		groups := layerGroups(cell, flags&FlagHasOptimizer != 0)
		for _, g := range groupOrder {
			params, ok := groups[g]
			if !ok {
				continue
			}
			for _, dst := range params.Tensors() {
				name := tensorName(p, g, dst.Name())
				meta, ok := tensors[name]
				if !ok {
					return nil, errors.Wrap(ErrMissingTensor, name)
				}
				if len(meta.Shape) != 2 || meta.Shape[0] != dst.Rows() || meta.Shape[1] != dst.Cols() {
					return nil, errors.Wrapf(ErrShapeMismatch, "%s: file %v, layer %dx%d", name, meta.Shape, dst.Rows(), dst.Cols())
				}
				if meta.Offset < 0 || meta.Offset+meta.Size > int64(len(data)) {
					return nil, errors.Wrapf(ErrTruncated, "tensor %s", name)
				}
				decodeTensor(dst, data[meta.Offset:meta.Offset+meta.Size])
			}
		}
		stack.Layers = append(stack.Layers, cell)
	}
	if err := stack.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		Stack:    stack,
		Config:   header.Config,
		Metadata: header.Metadata,
	}
	if flags&FlagHasProgress != 0 {
		m.Progress = header.Progress
	}
	if len(header.Vocab) > 0 {
		v, err := vocab.Unmarshal(header.Vocab)
		if err != nil {
			return nil, err
		}
		m.Vocab = v
	}
	return m, nil
}

package serialization

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/nn"
)

type jsonLayer struct {
	X          int                    `json:"x"`
	N          int                    `json:"n"`
	Y          int                    `json:"y"`
	Output     string                 `json:"output"`
	Parameters map[string][][]float64 `json:"parameters"`
}

type jsonNet struct {
	Features int         `json:"features"`
	Layers   []jsonLayer `json:"layers"`
}

// ExportJSON writes every layer's weights and biases as nested arrays,
// output-facing layer first.
func ExportJSON(w io.Writer, stack *lstm.Stack) error {
	net := jsonNet{Features: stack.Features}
	for _, cell := range stack.Layers {
		layer := jsonLayer{
			X:          cell.X(),
			N:          cell.N(),
			Y:          cell.Y(),
			Output:     cell.Activation.String(),
			Parameters: make(map[string][][]float64),
		}
		if cell.Softmax {
			layer.Output = "softmax"
		}
		for _, t := range cell.Params.Tensors() {
			layer.Parameters[t.Name()] = rows(t)
		}
		net.Layers = append(net.Layers, layer)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(net), "encoding network JSON")
}

// ExportJSONFile writes ExportJSON output to path.
func ExportJSONFile(path string, stack *lstm.Stack) error {
	//nolint:gosec // G304: File path comes from user input.
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if err := ExportJSON(f, stack); err != nil {
		_ = f.Close()
		return err
	}
	return errors.WithStack(f.Close())
}

func rows(p *nn.Parameter) [][]float64 {
	v := p.Value()
	out := make([][]float64, p.Rows())
	for i := range out {
		out[i] = append([]float64(nil), v.RawRowView(i)...)
	}
	return out
}

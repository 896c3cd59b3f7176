// Package serialization saves and loads trained LSTM stacks.
//
// A checkpoint file has the following layout:
//
//	0x00-0x03  Magic "RNNL"
//	0x04-0x07  Version (uint32 LE)
//	0x08-0x0B  Flags (uint32 LE)
//	0x0C-0x0F  Reserved
//	0x10-0x17  Header size (uint64 LE)
//	0x18-0x1F  Data size (uint64 LE)
//	0x20-0x3F  SHA-256 of the data section
//	[Header: JSON, zero padded to a 64-byte boundary]
//	[Tensor data: little-endian float64, row-major]
//
// The JSON header records the layer shapes, the training configuration,
// the vocabulary and, for checkpoints, the position of the run. Optimizer
// moments are stored as extra tensors when FlagHasOptimizer is set.
//
// Example usage:
//
//	m := &serialization.Model{Stack: stack, Vocab: v, Config: cfg}
//	if err := serialization.Save("model.rnnl", m, serialization.SaveOptions{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := serialization.Load("model.rnnl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// ExportJSON writes the weights as plain JSON for inspection by other tools.
package serialization

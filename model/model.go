// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model saves and loads trained stacks.
//
// A model file holds the weights of every layer, the vocabulary, the
// training configuration and, for resumable checkpoints, the optimizer
// moments and the training position. Files are checksummed and validated
// on load.
//
// Example usage:
//
//	import "github.com/born-ml/recurrent/model"
//
//	err := model.Save("run.rnn", &model.Model{
//	    Stack:  stack,
//	    Vocab:  v,
//	    Config: cfg,
//	}, model.SaveOptions{WithOptimizer: true})
//
//	m, err := model.Load("run.rnn")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(m.Stack.NumParams())
package model

import (
	"io"

	"github.com/born-ml/recurrent/internal/lstm"
	"github.com/born-ml/recurrent/internal/serialization"
)

// Model is a stack together with everything needed to use or resume it.
type Model = serialization.Model

// SaveOptions controls what Save writes.
type SaveOptions = serialization.SaveOptions

// ReaderOptions controls validation on load.
type ReaderOptions = serialization.ReaderOptions

// ValidationLevel controls the strictness of load-time validation.
type ValidationLevel = serialization.ValidationLevel

// Validation levels.
const (
	ValidationStrict = serialization.ValidationStrict
	ValidationNormal = serialization.ValidationNormal
	ValidationNone   = serialization.ValidationNone
)

// Load errors.
var (
	ErrChecksumMismatch   = serialization.ErrChecksumMismatch
	ErrInvalidMagic       = serialization.ErrInvalidMagic
	ErrUnsupportedVersion = serialization.ErrUnsupportedVersion
	ErrTruncated          = serialization.ErrTruncated
)

// Save writes m to path atomically.
func Save(path string, m *Model, opts SaveOptions) error {
	return serialization.Save(path, m, opts)
}

// Load reads a model file with strict validation.
func Load(path string) (*Model, error) {
	return serialization.Load(path)
}

// LoadWithOptions reads a model file with custom validation.
func LoadWithOptions(path string, opts ReaderOptions) (*Model, error) {
	return serialization.LoadWithOptions(path, opts)
}

// Write encodes m to w.
func Write(w io.Writer, m *Model, opts SaveOptions) error {
	return serialization.Write(w, m, opts)
}

// Read decodes a model from r.
func Read(r io.Reader, opts ReaderOptions) (*Model, error) {
	return serialization.Read(r, opts)
}

// ExportJSON writes the weights of stack as human-readable JSON.
func ExportJSON(w io.Writer, stack *lstm.Stack) error {
	return serialization.ExportJSON(w, stack)
}

// ExportJSONFile writes the JSON export to path.
func ExportJSONFile(path string, stack *lstm.Stack) error {
	return serialization.ExportJSONFile(path, stack)
}

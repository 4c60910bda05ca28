// Package yamlutil reads and writes the md2html config file with
// goccy/go-yaml. Decoding is strict and bounded in size.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// MaxInputSize is the largest document Decode accepts (1MB).
const MaxInputSize = 1 << 20

var (
	ErrEmptyDocument  = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// DecodeError carries a parse or strict-mode failure. Error renders the
// offending source lines, uncolored.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "yamlutil: " + yaml.FormatError(e.Err, false, true)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads a single document from r into v. Keys without a matching
// field fail, so a typo in the config file is reported instead of ignored.
func Decode(r io.Reader, v any) error {
	if v == nil {
		return ErrNilDestination
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading: %w", err)
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: max %d bytes", ErrInputTooLarge, MaxInputSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyDocument
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// Encode writes v to w with two-space indentation and indented lists.
func Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true))
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return enc.Close()
}

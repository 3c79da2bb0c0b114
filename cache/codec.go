package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Codec converts results to and from stored blobs.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Unmarshal must return an error rather than panic on corrupt data.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// Ext is the file extension for entries written by this codec,
	// including the leading dot.
	Ext() string
}

// GobCodec encodes values with encoding/gob.
type GobCodec struct{}

// NewGobCodec creates a gob codec.
func NewGobCodec() GobCodec {
	return GobCodec{}
}

// Marshal gob-encodes v.
func (GobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("cache: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal gob-decodes data into v, which must be a pointer.
func (GobCodec) Unmarshal(data []byte, v any) (err error) {
	// gob can panic on some malformed inputs; surface those as corruption.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}

// Ext returns ".gob".
func (GobCodec) Ext() string {
	return ".gob"
}

// Ensure GobCodec implements Codec
var _ Codec = GobCodec{}

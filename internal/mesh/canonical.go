package mesh

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// canonicalBuffer is the wire form of a Buffer. The operation log is an
// audit trail and is not part of the mesh identity, so it is left out.
type canonicalBuffer struct {
	Version   int            `cbor:"v"`
	Vertices  []float64      `cbor:"vertices"`
	Normals   []float64      `cbor:"normals"`
	UVs       []float64      `cbor:"uvs"`
	Colors    []float64      `cbor:"colors"`
	Indices   []uint32       `cbor:"indices"`
	Materials map[string]any `cbor:"materials"`
	Lights    []Light        `cbor:"lights"`
}

const canonicalVersion = 1

var (
	encOnce sync.Once
	encMode cbor.EncMode
	encErr  error
)

func canonicalEncMode() (cbor.EncMode, error) {
	encOnce.Do(func() {
		encMode, encErr = cbor.CanonicalEncOptions().EncMode()
	})
	return encMode, encErr
}

// MarshalCanonical encodes b as canonical CBOR (RFC 8949 §4.2.1): map keys
// sorted, shortest lengths. Equal meshes always produce identical bytes.
func (b *Buffer) MarshalCanonical() ([]byte, error) {
	em, err := canonicalEncMode()
	if err != nil {
		return nil, fmt.Errorf("mesh: cbor mode: %w", err)
	}
	data, err := em.Marshal(canonicalBuffer{
		Version:   canonicalVersion,
		Vertices:  b.Vertices,
		Normals:   b.Normals,
		UVs:       b.UVs,
		Colors:    b.Colors,
		Indices:   b.Indices,
		Materials: b.Materials,
		Lights:    b.Lights,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh: encode: %w", err)
	}
	return data, nil
}

// UnmarshalCanonical decodes bytes produced by MarshalCanonical.
func UnmarshalCanonical(data []byte) (*Buffer, error) {
	var cb canonicalBuffer
	if err := cbor.Unmarshal(data, &cb); err != nil {
		return nil, fmt.Errorf("mesh: decode: %w", err)
	}
	if cb.Version != canonicalVersion {
		return nil, fmt.Errorf("mesh: unsupported canonical version %d", cb.Version)
	}
	b := &Buffer{
		Vertices:  cb.Vertices,
		Normals:   cb.Normals,
		UVs:       cb.UVs,
		Colors:    cb.Colors,
		Indices:   cb.Indices,
		Materials: cb.Materials,
		Lights:    cb.Lights,
	}
	if b.Materials == nil {
		b.Materials = make(map[string]any)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Digest returns the hex blake2b-256 of the canonical encoding.
func (b *Buffer) Digest() (string, error) {
	data, err := b.MarshalCanonical()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

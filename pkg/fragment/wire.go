package fragment

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CBOR encoding options with canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("fragment: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalFragment serializes a Fragment to CBOR bytes.
func MarshalFragment(f *Fragment) ([]byte, error) {
	return cborEncMode.Marshal(f)
}

// UnmarshalFragment deserializes a Fragment from CBOR bytes.
func UnmarshalFragment(data []byte) (*Fragment, error) {
	var f Fragment
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fragment: unmarshal fragment: %w", err)
	}
	return &f, nil
}

// MarshalArchive serializes a program Archive to CBOR bytes.
func MarshalArchive(a *Archive) ([]byte, error) {
	return cborEncMode.Marshal(a)
}

// UnmarshalArchive deserializes a program Archive from CBOR bytes.
func UnmarshalArchive(data []byte) (*Archive, error) {
	var a Archive
	if err := cbor.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("fragment: unmarshal archive: %w", err)
	}
	return &a, nil
}

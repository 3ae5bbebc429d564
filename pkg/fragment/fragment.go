// Package fragment defines the downloadable units the splitter produces
// and the archive format it consumes. Fragments and archives travel as
// canonical CBOR, so identical inputs always serialize to identical bytes.
package fragment

import (
	"crypto/sha256"

	"github.com/akoita/jsplit/pkg/jsast"
)

// Fragment is one downloadable unit of compiled output, loaded
// incrementally after the initial program download.
type Fragment struct {
	SplitPoint int    `cbor:"1,keyasint"`
	Name       string `cbor:"2,keyasint"`
	JS         string `cbor:"3,keyasint"` // rendered statements

	Statements int      `cbor:"4,keyasint"`
	Hash       [32]byte `cbor:"5,keyasint"` // content hash of JS
}

// New renders the extracted statements of a split point into a Fragment.
func New(splitPoint int, name string, stats []jsast.Statement) *Fragment {
	js := jsast.WriteStatements(stats)
	return &Fragment{
		SplitPoint: splitPoint,
		Name:       name,
		JS:         js,
		Statements: len(stats),
		Hash:       sha256.Sum256([]byte(js)),
	}
}

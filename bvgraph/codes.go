package bvgraph

import "github.com/webgraph-go/bvgraph/bitio"

// readCode/writeCode/lenCode dispatch a single field's code choice to the
// matching bitio primitive, the Go analogue of the original's
// ConstCodesReader/Writer `select_code_read!`/`select_code_write!` macros
// (see code_readers.rs) collapsed into a runtime switch on the field's Code
// that is evaluated on every call.

func readCode(r bitio.BitReader, c Code, zetaK uint) (uint64, error) {
	switch c {
	case CodeUnary:
		return bitio.ReadUnaryFast(r)
	case CodeGamma:
		return bitio.ReadGamma(r)
	case CodeDelta:
		return bitio.ReadDelta(r)
	case CodeZeta:
		return bitio.ReadZeta(r, zetaK)
	default:
		return bitio.ReadGamma(r)
	}
}

func writeCode(w bitio.BitWriter, c Code, zetaK uint, x uint64) error {
	switch c {
	case CodeUnary:
		return w.WriteUnary(x)
	case CodeGamma:
		return bitio.WriteGamma(w, x)
	case CodeDelta:
		return bitio.WriteDelta(w, x)
	case CodeZeta:
		return bitio.WriteZeta(w, x, zetaK)
	default:
		return bitio.WriteGamma(w, x)
	}
}

func lenCode(c Code, zetaK uint, x uint64) uint {
	switch c {
	case CodeUnary:
		return bitio.LenUnary(x)
	case CodeGamma:
		return bitio.LenGamma(x)
	case CodeDelta:
		return bitio.LenDelta(x)
	case CodeZeta:
		return bitio.LenZeta(x, zetaK)
	default:
		return bitio.LenGamma(x)
	}
}

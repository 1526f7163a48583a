package bvgraph

import "github.com/webgraph-go/bvgraph/bitio"

// mockWriter implements bitio.BitWriter but only tallies bit lengths,
// never touching a backend — spec §4.2's "mock writer that computes code
// lengths without emitting bits", used by the encoder to cost out
// candidate references before committing to one.
type mockWriter struct {
	bits int64
}

func (m *mockWriter) WriteBits(_ uint64, n uint) error {
	m.bits += int64(n)
	return nil
}

func (m *mockWriter) WriteUnary(value uint64) error {
	m.bits += int64(value) + 1
	return nil
}

func (m *mockWriter) Flush() error    { return nil }
func (m *mockWriter) Position() int64 { return m.bits }
func (m *mockWriter) WordBits() uint  { return 64 }

var _ bitio.BitWriter = (*mockWriter)(nil)

// Package bvgraph implements the BVGraph adjacency-list compression scheme
// described in spec §4.2: reference lists, copy blocks, interval runs and
// residual gaps layered on top of the bitio universal codes.
package bvgraph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/webgraph-go/bvgraph/bitio"
	"github.com/webgraph-go/bvgraph/internal/codeerr"
)

const propsOp = "bvgraph.Properties"

// Code names a per-field universal code choice, from the closed set spec
// §4.2 allows.
type Code int

const (
	CodeUnary Code = iota
	CodeGamma
	CodeDelta
	CodeZeta
)

func (c Code) String() string {
	switch c {
	case CodeUnary:
		return "UNARY"
	case CodeGamma:
		return "GAMMA"
	case CodeDelta:
		return "DELTA"
	case CodeZeta:
		return "ZETA"
	default:
		return "UNKNOWN"
	}
}

func parseCode(s string) (Code, error) {
	switch strings.ToUpper(s) {
	case "UNARY":
		return CodeUnary, nil
	case "GAMMA":
		return CodeGamma, nil
	case "DELTA":
		return CodeDelta, nil
	case "ZETA":
		return CodeZeta, nil
	default:
		return 0, codeerr.New(codeerr.PropertyMismatch, propsOp, "unknown code %q", s)
	}
}

// CompFlags is the per-field code choice recorded under compressionflags,
// one Code per field in spec §4.2: outdegrees ∈ {γ,δ}, references ∈
// {unary,γ,δ}, blocks ∈ {γ,δ}, intervals ∈ {γ,δ}, residuals ∈ {γ,δ,ζ_k}.
type CompFlags struct {
	Outdegrees Code
	References Code
	Blocks     Code
	Intervals  Code
	Residuals  Code
}

// DefaultCompFlags matches the BVGraph ecosystem's usual defaults.
func DefaultCompFlags() CompFlags {
	return CompFlags{
		Outdegrees: CodeGamma,
		References: CodeUnary,
		Blocks:     CodeGamma,
		Intervals:  CodeGamma,
		Residuals:  CodeZeta,
	}
}

func fieldCode(name string, c Code) string {
	return strings.ToUpper(name) + "_" + c.String()
}

func parseFieldCode(tok string) (field, code string, err error) {
	i := strings.LastIndexByte(tok, '_')
	if i < 0 {
		return "", "", codeerr.New(codeerr.PropertyMismatch, propsOp, "malformed compressionflags token %q", tok)
	}
	return tok[:i], tok[i+1:], nil
}

// Properties is the typed view over the .properties text file spec §6
// describes: node/arc counts, endianness, window parameters and the
// per-field code table.
type Properties struct {
	Nodes             int64
	Arcs              int64
	CompFlags         CompFlags
	WindowSize        int
	MaxRefCount       int
	MinIntervalLength int
	BigEndian         bool
	ZetaK             uint // only meaningful when Residuals == CodeZeta
}

// DefaultProperties matches the BVGraph ecosystem's conventional defaults
// (window 7, max ref count unbounded in practice but capped here, min
// interval length 4, ζ_3).
func DefaultProperties() Properties {
	return Properties{
		CompFlags:         DefaultCompFlags(),
		WindowSize:        7,
		MaxRefCount:       3,
		MinIntervalLength: 4,
		BigEndian:         true,
		ZetaK:             3,
	}
}

// Load parses a .properties file (key=value per line, '#' comments, per
// spec §6).
func Load(r io.Reader) (Properties, error) {
	var p Properties
	kv := map[string]string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i < 0 {
			return p, codeerr.New(codeerr.PropertyMismatch, propsOp, "malformed line %q", line)
		}
		kv[strings.TrimSpace(line[:i])] = strings.TrimSpace(line[i+1:])
	}
	if err := sc.Err(); err != nil {
		return p, codeerr.Wrap(codeerr.BackendIO, propsOp, err, "read properties")
	}

	get := func(key string) (string, error) {
		v, ok := kv[key]
		if !ok {
			return "", codeerr.New(codeerr.PropertyMismatch, propsOp, "missing required key %q", key)
		}
		return v, nil
	}
	getInt := func(key string) (int64, error) {
		v, err := get(key)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, codeerr.Wrap(codeerr.PropertyMismatch, propsOp, err, "parse %s", key)
		}
		return n, nil
	}

	var err error
	if p.Nodes, err = getInt("nodes"); err != nil {
		return p, err
	}
	if p.Arcs, err = getInt("arcs"); err != nil {
		return p, err
	}
	ws, err := getInt("windowsize")
	if err != nil {
		return p, err
	}
	p.WindowSize = int(ws)
	mrc, err := getInt("maxrefcount")
	if err != nil {
		return p, err
	}
	p.MaxRefCount = int(mrc)
	mil, err := getInt("minintervallength")
	if err != nil {
		return p, err
	}
	p.MinIntervalLength = int(mil)

	end, err := get("endianness")
	if err != nil {
		return p, err
	}
	switch end {
	case "big":
		p.BigEndian = true
	case "little":
		p.BigEndian = false
	default:
		return p, codeerr.New(codeerr.PropertyMismatch, propsOp, "endianness must be big or little, got %q", end)
	}

	flags, err := get("compressionflags")
	if err != nil {
		return p, err
	}
	if flags != "" {
		for _, tok := range strings.Split(flags, ",") {
			field, codeStr, ferr := parseFieldCode(strings.TrimSpace(tok))
			if ferr != nil {
				return p, ferr
			}
			c, cerr := parseCode(codeStr)
			if cerr != nil {
				return p, cerr
			}
			switch strings.ToUpper(field) {
			case "OUTDEGREES":
				p.CompFlags.Outdegrees = c
			case "REFERENCES":
				p.CompFlags.References = c
			case "BLOCKS":
				p.CompFlags.Blocks = c
			case "INTERVALS":
				p.CompFlags.Intervals = c
			case "RESIDUALS":
				p.CompFlags.Residuals = c
			default:
				return p, codeerr.New(codeerr.PropertyMismatch, propsOp, "unknown compressionflags field %q", field)
			}
		}
	}

	if p.CompFlags.Residuals == CodeZeta {
		zk, zerr := getInt("zetak")
		if zerr != nil {
			return p, zerr
		}
		p.ZetaK = uint(zk)
	}
	return p, nil
}

// Save writes p in the key=value format Load understands, one key per line
// in a fixed order.
func Save(w io.Writer, p Properties) error {
	lines := []string{
		fmt.Sprintf("nodes=%d", p.Nodes),
		fmt.Sprintf("arcs=%d", p.Arcs),
		fmt.Sprintf("windowsize=%d", p.WindowSize),
		fmt.Sprintf("maxrefcount=%d", p.MaxRefCount),
		fmt.Sprintf("minintervallength=%d", p.MinIntervalLength),
	}
	if p.BigEndian {
		lines = append(lines, "endianness=big")
	} else {
		lines = append(lines, "endianness=little")
	}
	flags := []string{
		fieldCode("outdegrees", p.CompFlags.Outdegrees),
		fieldCode("references", p.CompFlags.References),
		fieldCode("blocks", p.CompFlags.Blocks),
		fieldCode("intervals", p.CompFlags.Intervals),
		fieldCode("residuals", p.CompFlags.Residuals),
	}
	lines = append(lines, "compressionflags="+strings.Join(flags, ","))
	if p.CompFlags.Residuals == CodeZeta {
		lines = append(lines, fmt.Sprintf("zetak=%d", p.ZetaK))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return codeerr.Wrap(codeerr.BackendIO, propsOp, err, "write properties")
		}
	}
	return nil
}

// bitOrder maps the on-disk endianness choice to the bit order BVGraph
// historically pairs with it: big-endian word representation with M2L bit
// packing, little-endian with L2M — matching the reference ecosystem.
func (p Properties) bitOrder() bitio.BitOrder {
	if p.BigEndian {
		return bitio.M2L
	}
	return bitio.L2M
}

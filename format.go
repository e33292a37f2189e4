package rjson

import (
	"regexp"
	"strconv"
)

// formatNode is one compiled piece of a format string: either a run of
// literal bytes to copy verbatim, or a "%..." conversion spec. Compiling
// the whole format string once into a node list before walking the
// argument list follows the shape of
// other_examples/9fae3078_crazytyper-go-sprintfjs__sprintfjs.go.go's
// ASTNode/AST — a regex-driven placeholder grammar compiled ahead of
// argument substitution — adapted here from JS-sprintf's field set to the
// C-printf flag/width/precision/length/conversion grammar spec.md §4.B
// specifies.
type formatNode struct {
	literal string // valid when conv == 0

	flags string // any of "-+ #0", in the order seen
	width int
	// widthStar and precStar mark a "*"/".*" width or precision: both are
	// resolved from the next Arg at emit time, not at compile time.
	widthStar bool
	hasPrec   bool
	prec      int
	precStar  bool
	length    string // "", "hh", "h", "l", "ll", "j", "z", "t", "L"
	conv      byte   // 0 for a literal node
}

// reConv matches one C-printf-family conversion spec, including the
// %Q %B %V %H %M conversions spec.md §4.B adds.
var reConv = regexp.MustCompile(
	`^%([-+ #0]*)(\*|\d+)?(?:\.(\*|\d+))?(hh|h|ll|l|j|z|t|L)?([diufFeEgGcspxXouBQVHMn%])`,
)

// compileFormat splits fmt into a node list of literal runs and conversion
// specs. It does not evaluate the object-literal bare-key auto-quoting
// transformation that Printf applies to literal runs; emitLiteral applies
// that at emit time. Scanf does not use this compiler: its path-shaped
// patterns go through compilePattern in scanf.go.
func compileFormat(fmt string) ([]formatNode, error) {
	var nodes []formatNode
	i := 0
	for i < len(fmt) {
		if fmt[i] != '%' {
			j := i
			for j < len(fmt) && fmt[j] != '%' {
				j++
			}
			nodes = append(nodes, formatNode{literal: fmt[i:j]})
			i = j
			continue
		}
		m := reConv.FindStringSubmatch(fmt[i:])
		if m == nil {
			return nil, ErrInvalid
		}
		n := formatNode{flags: m[1], length: m[4], conv: m[5][0]}
		if n.conv == '%' {
			n.literal = "%"
			n.conv = 0
			nodes = append(nodes, n)
			i += len(m[0])
			continue
		}
		if m[2] == "*" {
			n.widthStar = true
		} else if m[2] != "" {
			n.width, _ = strconv.Atoi(m[2])
		}
		if m[3] == "*" {
			n.hasPrec = true
			n.precStar = true
		} else if m[3] != "" {
			n.hasPrec = true
			n.prec, _ = strconv.Atoi(m[3])
		}
		nodes = append(nodes, n)
		i += len(m[0])
	}
	return nodes, nil
}

// hasFlag reports whether flag byte f appears among n.flags.
func (n formatNode) hasFlag(f byte) bool {
	for i := 0; i < len(n.flags); i++ {
		if n.flags[i] == f {
			return true
		}
	}
	return false
}

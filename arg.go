package rjson

// Arg is one typed argument consumed by Printf's conversion list. Per
// spec.md §9 ("ports should prefer a typed value list or builder" over C's
// variadic machinery), arguments are built with these constructors instead
// of being passed as bare `any` and type-switched at conversion time.
type Arg struct {
	kind argKind
	i    int64
	u    uint64
	f    float64
	s    string
	b    []byte
	bo   bool
	null bool
	hook Emitter
	nOut *int
}

type argKind int

const (
	argInt argKind = iota
	argUint
	argFloat
	argStr
	argBytes
	argBool
	argHook
	argN
	argPtr
)

// Int builds a signed-integer argument for d/i conversions, for c (its low
// byte is emitted), and for a `*` width or precision.
func Int(v int64) Arg { return Arg{kind: argInt, i: v} }

// Uint builds an unsigned-integer argument for u/o/x/X conversions.
func Uint(v uint64) Arg { return Arg{kind: argUint, u: v} }

// Float builds a floating-point argument for f/e/g/F/E/G conversions.
func Float(v float64) Arg { return Arg{kind: argFloat, f: v} }

// Str builds a string argument for s/Q conversions and for lc, which emits
// the string as is; plain c reads an Int instead.
func Str(v string) Arg { return Arg{kind: argStr, s: v} }

// Null builds the argument %Q renders as the JSON literal null.
func Null() Arg { return Arg{kind: argStr, null: true} }

// Bytes builds a byte-slice argument for the V (base64) and H (hex)
// conversions.
func Bytes(v []byte) Arg { return Arg{kind: argBytes, b: v} }

// Bool builds a boolean argument for the B conversion.
func Bool(v bool) Arg { return Arg{kind: argBool, bo: v} }

// Ptr builds an argument for the p conversion; rendering is
// implementation-defined, matching spec.md §4.B.
func Ptr(v string) Arg { return Arg{kind: argPtr, s: v} }

// CountTo builds an argument for the n conversion: *out receives the number
// of bytes emitted so far once Printf reaches this spec.
func CountTo(out *int) Arg { return Arg{kind: argN, nOut: out} }

// Emitter is the typed replacement for the M conversion's C function
// pointer (spec.md §9): a caller-supplied hook that emits arbitrary JSON
// straight into the sink Printf is already writing to.
type Emitter interface {
	EmitJSON(p *Printer) error
}

// EmitterFunc adapts a plain function to the Emitter interface.
type EmitterFunc func(p *Printer) error

func (f EmitterFunc) EmitJSON(p *Printer) error { return f(p) }

// Hook builds an M-conversion argument from an Emitter.
func Hook(e Emitter) Arg { return Arg{kind: argHook, hook: e} }

package runtime

import "fmt"

// ValueKind tags the variant held by a Value (spec.md §3).
type ValueKind int

const (
	KindVoid ValueKind = iota
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindObject
)

// Value is the tagged union that flows through the operand stack,
// local variable slots, and static/instance fields. A zero Value is
// KindVoid, used to prefill local slots that have never been written.
type Value struct {
	Kind   ValueKind
	Int    int32
	Long   int64
	Float  float32
	Double float64
	Str    string
	Obj    *Object
}

func Int(v int32) Value    { return Value{Kind: KindInt, Int: v} }
func Long(v int64) Value   { return Value{Kind: KindLong, Long: v} }
func Float(v float32) Value { return Value{Kind: KindFloat, Float: v} }
func Double(v float64) Value { return Value{Kind: KindDouble, Double: v} }
func Str(v string) Value   { return Value{Kind: KindString, Str: v} }
func ObjRef(o *Object) Value { return Value{Kind: KindObject, Obj: o} }

// Void is the value that prefills every local variable slot before a
// frame's arguments are copied in.
var Void = Value{Kind: KindVoid}

// String renders a Value the way java.io.PrintStream.println does for
// this subset's supported argument types (spec.md §4.4).
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindLong:
		return fmt.Sprintf("%d", v.Long)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindDouble:
		return fmt.Sprintf("%g", v.Double)
	case KindString:
		return v.Str
	case KindObject:
		if v.Obj == nil {
			return "null"
		}
		return v.Obj.String()
	case KindVoid:
		return "<void>"
	default:
		return "<?>"
	}
}

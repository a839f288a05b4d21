package runtime

import "fmt"

// Object is a heap instance. Instances share mutable state through the
// pointer itself (spec.md §3: "object identity is the Go pointer; no
// garbage collector beyond Go's own, no cycles are a concern for this
// subset's object graphs"). id gives each instance a deterministic,
// allocation-order identity for String(), since a printed object must
// not depend on where Go happened to place it in memory (spec.md §8).
type Object struct {
	Class  *Class
	Fields map[string]Value
	id     uint64
}

// nextObjectID hands out the deterministic, allocation-order identity
// used by Object.String().
var nextObjectID uint64

// NewObject allocates a zero-valued instance of class c: every field
// declared on c starts as Void until a constructor assigns it.
func NewObject(c *Class) *Object {
	nextObjectID++
	return &Object{Class: c, Fields: map[string]Value{}, id: nextObjectID}
}

func (o *Object) GetField(name string) Value {
	v, ok := o.Fields[name]
	if !ok {
		return Void
	}
	return v
}

func (o *Object) SetField(name string, v Value) {
	o.Fields[name] = v
}

func (o *Object) String() string {
	if o.Class == nil {
		return fmt.Sprintf("<object#%d>", o.id)
	}
	return fmt.Sprintf("%s@%d", o.Class.Name, o.id)
}

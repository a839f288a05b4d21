package runtime

import "github.com/gojclass/classrun/pkg/classfile"

// NativeFunc implements a built-in method body (spec.md §4.4). args
// is laid out as the call site in pkg/runtime/resolve.go builds the
// callee's locals: for instance methods the receiver is args[0] and
// the parameters follow, matching the bytecode calling convention;
// for static methods args holds only the parameters.
type NativeFunc func(env *Environment, args []Value) (Value, error)

// Method is a resolved, invocable method: either backed by a Code
// attribute (interpreted) or by a NativeFunc (built-in).
type Method struct {
	Name       string
	Descriptor string
	IsStatic   bool
	Class      *Class
	Code       *classfile.CodeAttribute
	Native     NativeFunc
}

// Class is a loaded class: either parsed from a .class file or a
// built-in installed directly by the runtime (spec.md §4.4's modeled
// subset of java.lang.Object/System and java.io.PrintStream).
//
// Methods is keyed by simple name only, matching this subset's known
// limitation: two methods that share a name but differ only in
// descriptor collide, and the most recently installed one wins
// (spec.md §9, preserved rather than fixed).
type Class struct {
	Name         string
	File         *classfile.ClassFile
	Super        *Class
	Methods      map[string]*Method
	StaticFields map[string]Value
}

// NewClass constructs an empty class shell ready to receive methods
// installed either from a parsed ClassFile (see Environment.LoadClass)
// or by a built-in registration (see installBuiltins).
func NewClass(name string) *Class {
	return &Class{
		Name:         name,
		Methods:      map[string]*Method{},
		StaticFields: map[string]Value{},
	}
}

// FindMethod looks up a method by simple name, walking the super chain
// when absent locally (spec.md §4.4: Object is the implicit super of
// every user class in this subset).
func (c *Class) FindMethod(name string) *Method {
	for cur := c; cur != nil; cur = cur.Super {
		if m, ok := cur.Methods[name]; ok {
			return m
		}
	}
	return nil
}

func (c *Class) installNative(name, descriptor string, static bool, fn NativeFunc) {
	c.Methods[name] = &Method{
		Name:       name,
		Descriptor: descriptor,
		IsStatic:   static,
		Class:      c,
		Native:     fn,
	}
}

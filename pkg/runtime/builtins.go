package runtime

import "fmt"

// installBuiltins populates env with this subset's modeled slice of
// java.lang.Object, java.io.PrintStream, and java.lang.System
// (spec.md §4.4). These are the only classes an interpreted program
// can reach without a .class file on the classpath.
func installBuiltins(env *Environment) {
	object := NewClass("java/lang/Object")
	object.installNative("<init>", "()V", false, func(env *Environment, args []Value) (Value, error) {
		return Void, nil
	})
	env.register(object)

	printStream := NewClass("java/io/PrintStream")
	printStream.Super = object
	printStream.installNative("println", "(Ljava/lang/Object;)V", false, nativePrintln)
	env.register(printStream)

	system := NewClass("java/lang/System")
	system.Super = object
	env.register(system)
	system.StaticFields["out"] = ObjRef(NewObject(printStream))
}

// nativePrintln implements java.io.PrintStream.println for this
// subset: args[0] is the receiver and args[1], the argument after it,
// is written to env.Out followed by a newline, matching fmt.Fprintln's
// rendering of the argument's Value.String(). With no argument after
// the receiver only the newline is written; further arguments are
// ignored.
func nativePrintln(env *Environment, args []Value) (Value, error) {
	if len(args) < 2 {
		fmt.Fprintln(env.Out)
		return Void, nil
	}
	fmt.Fprintln(env.Out, args[1].String())
	return Void, nil
}

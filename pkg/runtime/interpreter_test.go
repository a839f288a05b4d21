package runtime

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gojclass/classrun/pkg/classfile"
)

// writeClass serializes b and writes it to dir/name.class, so that an
// Environment whose ClassPath is dir can load it.
func writeClass(t *testing.T, dir, name string, b *classfile.Builder) {
	t.Helper()
	path := filepath.Join(dir, name+".class")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func runClass(t *testing.T, dir, className, methodName string) string {
	t.Helper()
	var out bytes.Buffer
	env := NewEnvironment(dir, &out, nil, nil)
	if _, err := RunMain(env, className, methodName); err != nil {
		t.Fatalf("RunMain(%s.%s): %v", className, methodName, err)
	}
	return out.String()
}

func TestHelloWorld(t *testing.T) {
	dir := t.TempDir()

	b := classfile.NewBuilder("Hello", "java/lang/Object")
	sys := b.Fieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
	msg := b.StringConst("Hello, world!")
	println_ := b.Methodref("java/io/PrintStream", "println", "(Ljava/lang/Object;)V")

	code := newAsm().
		raw(opGetstatic).u16(sys). // getstatic System.out
		raw(opLdc).raw(byte(msg)). // ldc "Hello, world!"
		raw(opInvokevirtual).u16(println_). // invokevirtual println
		raw(opReturnOp). // return
		Bytes()

	b.AddMethod(classfile.AccPublic|classfile.AccStatic, "main", "()V", 2, 1, code)
	writeClass(t, dir, "Hello", b)

	got := runClass(t, dir, "Hello", "main")
	if got != "Hello, world!\n" {
		t.Errorf("got %q, want %q", got, "Hello, world!\n")
	}
}

func TestArithmetic(t *testing.T) {
	dir := t.TempDir()

	b := classfile.NewBuilder("Arithmetic", "java/lang/Object")
	sys := b.Fieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
	println_ := b.Methodref("java/io/PrintStream", "println", "(Ljava/lang/Object;)V")

	code := newAsm().
		raw(opGetstatic).u16(sys). // getstatic System.out
		raw(opIconst3). // iconst_3
		raw(opIconst4). // iconst_4
		raw(opIadd). // iadd
		raw(opInvokevirtual).u16(println_).
		raw(opReturnOp).
		Bytes()

	b.AddMethod(classfile.AccPublic|classfile.AccStatic, "main", "()V", 3, 1, code)
	writeClass(t, dir, "Arithmetic", b)

	got := runClass(t, dir, "Arithmetic", "main")
	if got != "7\n" {
		t.Errorf("got %q, want %q", got, "7\n")
	}
}

// Loop sums 0..9 into local 1, printing the total: 0+1+...+9 = 45.
func TestLoop(t *testing.T) {
	dir := t.TempDir()

	b := classfile.NewBuilder("Loop", "java/lang/Object")
	sys := b.Fieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
	println_ := b.Methodref("java/io/PrintStream", "println", "(Ljava/lang/Object;)V")

	// locals: 0 = i, 1 = sum
	asm := newAsm().
		raw(opIconst0).raw(opIstore0).
		raw(opIconst0).raw(opIstore1).
		label("loop").
		raw(opIload0).raw(opBipush, 10).
		jump(opIfIcmpge, "end").
		raw(opIload1).raw(opIload0).raw(opIadd).raw(opIstore1). // sum += i
		raw(opIinc).raw(0, 1). // i++
		jump(opGoto, "loop").
		label("end").
		raw(opGetstatic).u16(sys).
		raw(opIload1).
		raw(opInvokevirtual).u16(println_).
		raw(opReturnOp)
	code := asm.Bytes()

	b.AddMethod(classfile.AccPublic|classfile.AccStatic, "main", "()V", 3, 2, code)
	writeClass(t, dir, "Loop", b)

	got := runClass(t, dir, "Loop", "main")
	if got != "45\n" {
		t.Errorf("got %q, want %q", got, "45\n")
	}
}

// Field builds a Box with a field x, stores 42 into it via putfield,
// reads it back via getfield, and prints it.
func TestField(t *testing.T) {
	dir := t.TempDir()

	box := classfile.NewBuilder("Box", "java/lang/Object")
	box.AddField(0, "x", "I")
	objectInit := box.Methodref("java/lang/Object", "<init>", "()V")
	box.AddMethod(classfile.AccPublic, "<init>", "()V", 1, 1,
		newAsm().raw(opAload0).raw(opInvokespecial).u16(objectInit).raw(opReturnOp).Bytes())
	writeClass(t, dir, "Box", box)

	main := classfile.NewBuilder("FieldMain", "java/lang/Object")
	boxClass := main.ClassRef("Box")
	boxInit := main.Methodref("Box", "<init>", "()V")
	xFieldMain := main.Fieldref("Box", "x", "I")
	sys := main.Fieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
	println_ := main.Methodref("java/io/PrintStream", "println", "(Ljava/lang/Object;)V")

	code := newAsm().
		raw(opNew).u16(boxClass). // new Box
		raw(opDup). // dup
		raw(opInvokespecial).u16(boxInit). // invokespecial <init>
		raw(opAstore1). // astore_1
		raw(opAload1). // aload_1
		raw(opBipush, 42). // bipush 42
		raw(opPutfield).u16(xFieldMain). // putfield x
		raw(opGetstatic).u16(sys). // getstatic System.out
		raw(opAload1). // aload_1
		raw(opGetfield).u16(xFieldMain). // getfield x
		raw(opInvokevirtual).u16(println_). // invokevirtual println
		raw(opReturnOp).
		Bytes()

	main.AddMethod(classfile.AccPublic|classfile.AccStatic, "main", "()V", 3, 2, code)
	writeClass(t, dir, "FieldMain", main)

	got := runClass(t, dir, "FieldMain", "main")
	if got != "42\n" {
		t.Errorf("got %q, want %q", got, "42\n")
	}
}

// MethodCall has a static sq(I)I called from main via invokestatic.
func TestMethodCall(t *testing.T) {
	dir := t.TempDir()

	b := classfile.NewBuilder("MethodCall", "java/lang/Object")
	sq := b.Methodref("MethodCall", "sq", "(I)I")
	sys := b.Fieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
	println_ := b.Methodref("java/io/PrintStream", "println", "(Ljava/lang/Object;)V")

	sqCode := newAsm().
		raw(opIload0).raw(opIload0).raw(opImul).raw(opIreturn).Bytes()
	b.AddMethod(classfile.AccStatic, "sq", "(I)I", 2, 1, sqCode)

	mainCode := newAsm().
		raw(opGetstatic).u16(sys).
		raw(opBipush, 5).
		raw(opInvokestatic).u16(sq). // invokestatic sq
		raw(opInvokevirtual).u16(println_).
		raw(opReturnOp).
		Bytes()
	b.AddMethod(classfile.AccPublic|classfile.AccStatic, "main", "()V", 3, 1, mainCode)
	writeClass(t, dir, "MethodCall", b)

	got := runClass(t, dir, "MethodCall", "main")
	if got != "25\n" {
		t.Errorf("got %q, want %q", got, "25\n")
	}
}

// Tableswitch dispatches on iconst_2 over arms "zero","one","two","three".
func TestTableswitch(t *testing.T) {
	dir := t.TempDir()

	b := classfile.NewBuilder("Tableswitch", "java/lang/Object")
	sys := b.Fieldref("java/lang/System", "out", "Ljava/io/PrintStream;")
	println_ := b.Methodref("java/io/PrintStream", "println", "(Ljava/lang/Object;)V")
	zero := b.StringConst("zero")
	one := b.StringConst("one")
	two := b.StringConst("two")
	three := b.StringConst("three")

	asm := newAsm().
		raw(opIconst2).
		tableswitch(0, 3, "default", []string{"arm0", "arm1", "arm2", "arm3"}).
		label("arm0").raw(opGetstatic).u16(sys).raw(opLdc).raw(byte(zero)).raw(opInvokevirtual).u16(println_).jump(opGoto, "end").
		label("arm1").raw(opGetstatic).u16(sys).raw(opLdc).raw(byte(one)).raw(opInvokevirtual).u16(println_).jump(opGoto, "end").
		label("arm2").raw(opGetstatic).u16(sys).raw(opLdc).raw(byte(two)).raw(opInvokevirtual).u16(println_).jump(opGoto, "end").
		label("arm3").raw(opGetstatic).u16(sys).raw(opLdc).raw(byte(three)).raw(opInvokevirtual).u16(println_).jump(opGoto, "end").
		label("default").raw(opReturnOp). // unreachable for this fixture's input
		label("end").raw(opReturnOp)

	b.AddMethod(classfile.AccPublic|classfile.AccStatic, "main", "()V", 2, 1, asm.Bytes())
	writeClass(t, dir, "Tableswitch", b)

	got := runClass(t, dir, "Tableswitch", "main")
	if got != "two\n" {
		t.Errorf("got %q, want %q", got, "two\n")
	}
}

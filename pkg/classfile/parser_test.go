package classfile

import (
	"bytes"
	"os"
	"testing"
)

func TestParseClassFile(t *testing.T) {
	b := NewBuilder("Hello", "java/lang/Object")
	b.AddMethod(AccPublic|AccStatic, "main", "()V", 2, 1, []byte{
		0xB1, // return
	})

	cf, err := Parse(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cf.MajorVersion != 52 {
		t.Errorf("major version: got %d, want 52", cf.MajorVersion)
	}

	className, err := cf.ClassName()
	if err != nil {
		t.Fatalf("resolving this_class: %v", err)
	}
	if className != "Hello" {
		t.Errorf("this_class: got %q, want %q", className, "Hello")
	}

	mainMethod := cf.FindMethod("main")
	if mainMethod == nil {
		t.Fatal("main method not found")
	}
	if mainMethod.Descriptor != "()V" {
		t.Errorf("main descriptor: got %q, want %q", mainMethod.Descriptor, "()V")
	}
	if mainMethod.Code == nil {
		t.Fatal("main method has no Code attribute")
	}
	if len(mainMethod.Code.Code) == 0 {
		t.Error("Code attribute has empty bytecode")
	}
	if mainMethod.Code.MaxStack != 2 {
		t.Errorf("MaxStack: got %d, want 2", mainMethod.Code.MaxStack)
	}
	if mainMethod.Code.MaxLocals != 1 {
		t.Errorf("MaxLocals: got %d, want 1", mainMethod.Code.MaxLocals)
	}
}

func TestParseMethodWithFieldsAndConstants(t *testing.T) {
	b := NewBuilder("Box", "java/lang/Object")
	b.AddField(0, "x", "I")
	b.Methodref("Box", "sq", "(I)I")
	b.AddMethod(AccStatic, "sq", "(I)I", 2, 1, []byte{0x1A, 0x1A, 0x68, 0xAC})
	b.AddMethod(AccPublic|AccStatic, "main", "()V", 2, 1, []byte{0xB1})

	cf, err := Parse(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(cf.Fields) != 1 {
		t.Fatalf("fields: got %d, want 1", len(cf.Fields))
	}
	if cf.Fields[0].Name != "x" || cf.Fields[0].Descriptor != "I" {
		t.Errorf("field: got %+v", cf.Fields[0])
	}

	sqMethod := cf.FindMethod("sq")
	if sqMethod == nil {
		t.Fatal("sq method not found")
	}
	if sqMethod.Descriptor != "(I)I" {
		t.Errorf("sq descriptor: got %q", sqMethod.Descriptor)
	}
}

func TestParseInvalidMagic(t *testing.T) {
	f, err := os.CreateTemp("", "invalid*.class")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	defer os.Remove(f.Name())

	f.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	f.Close()

	r, err := os.Open(f.Name())
	if err != nil {
		t.Fatalf("opening temp file: %v", err)
	}
	defer r.Close()

	if _, err := Parse(r); err == nil {
		t.Error("expected error for invalid magic number, got nil")
	}
}

func TestParseLongDoubleRejected(t *testing.T) {
	var raw bytes.Buffer
	raw.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE}) // magic
	raw.Write([]byte{0x00, 0x00})             // minor
	raw.Write([]byte{0x00, 0x34})             // major
	raw.Write([]byte{0x00, 0x02})             // constant_pool_count = 2 (one entry)
	raw.Write([]byte{0x05})                   // tag = Long
	raw.Write(make([]byte, 8))                // 8 bytes of (unused) payload

	_, err := Parse(&raw)
	if err == nil {
		t.Error("expected error for Long constant pool entry, got nil")
	}
}

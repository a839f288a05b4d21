package classfile

import (
	"bytes"
	"encoding/binary"
)

// Builder assembles a well-formed .class file byte stream
// programmatically. It exists to let tests (in this package and in
// pkg/runtime) construct fixtures without depending on a javac
// toolchain or checked-in binary .class files.
type Builder struct {
	minor, major uint16
	pool         []poolEntry
	accessFlags  uint16
	thisClass    uint16
	superClass   uint16
	fields       []builtField
	methods      []builtMethod
}

type poolEntry struct {
	tag   uint8
	a, b  uint16
	value string
}

type builtField struct {
	accessFlags      uint16
	nameIdx, descIdx uint16
}

type builtMethod struct {
	accessFlags      uint16
	nameIdx, descIdx uint16
	maxStack         uint16
	maxLocals        uint16
	code             []byte
}

// NewBuilder starts a class file with major/minor version 52.0 (Java
// 8), access flags ACC_PUBLIC|ACC_SUPER, and superName installed as
// the super class (its own CONSTANT_Class/Utf8 entries are added
// automatically).
func NewBuilder(className, superName string) *Builder {
	b := &Builder{minor: 0, major: 52, accessFlags: AccPublic | AccSuper}
	b.thisClass = b.classRef(className)
	b.superClass = b.classRef(superName)
	return b
}

// index 0 is reserved; entries start at 1.
func (b *Builder) add(e poolEntry) uint16 {
	b.pool = append(b.pool, e)
	return uint16(len(b.pool))
}

// Utf8 interns a Utf8 constant, returning its index.
func (b *Builder) Utf8(s string) uint16 {
	for i, e := range b.pool {
		if e.tag == TagUtf8 && e.value == s {
			return uint16(i + 1)
		}
	}
	return b.add(poolEntry{tag: TagUtf8, value: s})
}

func (b *Builder) classRef(name string) uint16 {
	nameIdx := b.Utf8(name)
	return b.add(poolEntry{tag: TagClass, a: nameIdx})
}

// StringConst adds a CONSTANT_String backed by an interned Utf8,
// returning the String entry's index — what ldc expects.
func (b *Builder) StringConst(s string) uint16 {
	utf8 := b.Utf8(s)
	return b.add(poolEntry{tag: TagString, a: utf8})
}

func (b *Builder) nameAndType(name, descriptor string) uint16 {
	nameIdx := b.Utf8(name)
	descIdx := b.Utf8(descriptor)
	return b.add(poolEntry{tag: TagNameAndType, a: nameIdx, b: descIdx})
}

// Methodref adds a CONSTANT_Methodref for className.name:descriptor,
// with new Class and NameAndType entries on every call; only Utf8
// entries are deduplicated.
func (b *Builder) Methodref(className, name, descriptor string) uint16 {
	classIdx := b.classRef(className)
	natIdx := b.nameAndType(name, descriptor)
	return b.add(poolEntry{tag: TagMethodref, a: classIdx, b: natIdx})
}

// Fieldref adds a CONSTANT_Fieldref for className.name:descriptor,
// with new Class and NameAndType entries on every call.
func (b *Builder) Fieldref(className, name, descriptor string) uint16 {
	classIdx := b.classRef(className)
	natIdx := b.nameAndType(name, descriptor)
	return b.add(poolEntry{tag: TagFieldref, a: classIdx, b: natIdx})
}

// ClassRef adds a bare CONSTANT_Class, for use with the `new` opcode.
func (b *Builder) ClassRef(name string) uint16 {
	return b.classRef(name)
}

// AddField declares a field_info with no attributes.
func (b *Builder) AddField(accessFlags uint16, name, descriptor string) {
	b.fields = append(b.fields, builtField{
		accessFlags: accessFlags,
		nameIdx:     b.Utf8(name),
		descIdx:     b.Utf8(descriptor),
	})
}

// AddMethod declares a method with a single Code attribute (no
// exception table, no LineNumberTable) holding code verbatim.
func (b *Builder) AddMethod(accessFlags uint16, name, descriptor string, maxStack, maxLocals uint16, code []byte) {
	b.methods = append(b.methods, builtMethod{
		accessFlags: accessFlags,
		nameIdx:     b.Utf8(name),
		descIdx:     b.Utf8(descriptor),
		maxStack:    maxStack,
		maxLocals:   maxLocals,
		code:        code,
	})
}

// Bytes serializes the accumulated class file.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	w := func(v interface{}) { binary.Write(&buf, binary.BigEndian, v) }

	// Intern "Code" before the pool is written, so every method's
	// attribute name index points inside the serialized pool.
	codeUtf8 := b.Utf8("Code")

	w(uint32(classMagic))
	w(b.minor)
	w(b.major)

	w(uint16(len(b.pool) + 1))
	for _, e := range b.pool {
		w(e.tag)
		switch e.tag {
		case TagUtf8:
			raw := []byte(e.value)
			w(uint16(len(raw)))
			buf.Write(raw)
		case TagClass, TagString:
			w(e.a)
		case TagFieldref, TagMethodref, TagNameAndType:
			w(e.a)
			w(e.b)
		}
	}

	w(b.accessFlags)
	w(b.thisClass)
	w(b.superClass)

	w(uint16(0)) // interfaces_count

	w(uint16(len(b.fields)))
	for _, f := range b.fields {
		w(f.accessFlags)
		w(f.nameIdx)
		w(f.descIdx)
		w(uint16(0)) // attributes_count
	}

	w(uint16(len(b.methods)))
	for _, m := range b.methods {
		w(m.accessFlags)
		w(m.nameIdx)
		w(m.descIdx)
		w(uint16(1)) // attributes_count

		var codeBuf bytes.Buffer
		cw := func(v interface{}) { binary.Write(&codeBuf, binary.BigEndian, v) }
		cw(m.maxStack)
		cw(m.maxLocals)
		cw(uint32(len(m.code)))
		codeBuf.Write(m.code)
		cw(uint16(0)) // exception_table_length
		cw(uint16(0)) // Code's own attributes_count

		w(codeUtf8)
		w(uint32(codeBuf.Len()))
		buf.Write(codeBuf.Bytes())
	}

	w(uint16(0)) // class attributes_count

	return buf.Bytes()
}

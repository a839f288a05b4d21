package classfile

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

const classMagic = 0xCAFEBABE

// ParseFile opens and parses a .class file from disk.
func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	cf, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return cf, nil
}

// Parse decodes a .class file from r into a ClassFile (spec.md §4.2).
func Parse(src io.Reader) (*ClassFile, error) {
	r := newReader(src)
	cf := &ClassFile{}

	magic, err := r.u32()
	if err != nil {
		return nil, errors.Wrap(err, "reading magic number")
	}
	if magic != classMagic {
		return nil, errors.Errorf("invalid magic number: 0x%X (expected 0x%X)", magic, uint32(classMagic))
	}

	if cf.MinorVersion, err = r.u16(); err != nil {
		return nil, errors.Wrap(err, "reading minor version")
	}
	if cf.MajorVersion, err = r.u16(); err != nil {
		return nil, errors.Wrap(err, "reading major version")
	}

	poolCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading constant_pool_count")
	}
	pool, err := parseConstantPool(r, poolCount)
	if err != nil {
		return nil, errors.Wrap(err, "parsing constant pool")
	}
	cf.Pool = pool

	if cf.AccessFlags, err = r.u16(); err != nil {
		return nil, errors.Wrap(err, "reading access flags")
	}
	if cf.ThisClass, err = r.u16(); err != nil {
		return nil, errors.Wrap(err, "reading this_class")
	}
	if cf.SuperClass, err = r.u16(); err != nil {
		return nil, errors.Wrap(err, "reading super_class")
	}

	interfacesCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading interfaces_count")
	}
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		if cf.Interfaces[i], err = r.u16(); err != nil {
			return nil, errors.Wrapf(err, "reading interface %d", i)
		}
	}

	fieldsCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading fields_count")
	}
	if cf.Fields, err = parseFields(r, pool, fieldsCount); err != nil {
		return nil, errors.Wrap(err, "parsing fields")
	}

	methodsCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading methods_count")
	}
	if cf.Methods, err = parseMethods(r, pool, methodsCount); err != nil {
		return nil, errors.Wrap(err, "parsing methods")
	}

	attrsCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading class attributes_count")
	}
	if cf.Attributes, err = parseRawAttributes(r, pool, attrsCount); err != nil {
		return nil, errors.Wrap(err, "parsing class attributes")
	}

	return cf, nil
}

func parseFields(r *reader, pool ConstantPool, count uint16) ([]FieldInfo, error) {
	fields := make([]FieldInfo, count)
	for i := range fields {
		accessFlags, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading field %d access flags", i)
		}
		nameIndex, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading field %d name index", i)
		}
		descIndex, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading field %d descriptor index", i)
		}
		attrCount, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading field %d attributes count", i)
		}

		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving field %d name", i)
		}
		desc, err := pool.Utf8(descIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving field %d descriptor", i)
		}
		attrs, err := parseRawAttributes(r, pool, attrCount)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing field %d attributes", i)
		}

		fields[i] = FieldInfo{AccessFlags: accessFlags, Name: name, Descriptor: desc, Attributes: attrs}
	}
	return fields, nil
}

func parseMethods(r *reader, pool ConstantPool, count uint16) ([]MethodInfo, error) {
	methods := make([]MethodInfo, count)
	for i := range methods {
		accessFlags, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading method %d access flags", i)
		}
		nameIndex, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading method %d name index", i)
		}
		descIndex, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading method %d descriptor index", i)
		}
		attrCount, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading method %d attributes count", i)
		}

		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving method %d name", i)
		}
		desc, err := pool.Utf8(descIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving method %d descriptor", i)
		}
		attrs, err := parseRawAttributes(r, pool, attrCount)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing method %d (%s) attributes", i, name)
		}

		m := MethodInfo{AccessFlags: accessFlags, Name: name, Descriptor: desc, Attributes: attrs}
		for _, attr := range attrs {
			if attr.Name == "Code" {
				code, err := parseCodeAttribute(pool, attr.Data)
				if err != nil {
					return nil, errors.Wrapf(err, "parsing Code attribute for method %s", name)
				}
				m.Code = code
				break
			}
		}
		methods[i] = m
	}
	return methods, nil
}

// parseRawAttributes reads `count` generic attribute_info structures:
// a name index, a u4 length, and exactly `length` bytes of payload.
// The name is resolved eagerly against the already-parsed pool, per
// spec.md §4.2.
func parseRawAttributes(r *reader, pool ConstantPool, count uint16) ([]RawAttribute, error) {
	attrs := make([]RawAttribute, count)
	for i := range attrs {
		nameIndex, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading attribute %d name index", i)
		}
		length, err := r.u32()
		if err != nil {
			return nil, errors.Wrapf(err, "reading attribute %d length", i)
		}
		data, err := r.bytes(int(length))
		if err != nil {
			return nil, errors.Wrapf(err, "reading attribute %d data", i)
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving attribute %d name", i)
		}
		attrs[i] = RawAttribute{Name: name, Data: data}
	}
	return attrs, nil
}

// parseCodeAttribute decodes a Code attribute's payload, recursing into
// its own nested attribute list (LineNumberTable, StackMapTable). A
// bounded sub-reader scopes the decode to exactly len(data) bytes;
// surplus or shortage is a decode error (spec.md §4.1).
func parseCodeAttribute(pool ConstantPool, data []byte) (*CodeAttribute, error) {
	bound := newReader(bytes.NewReader(data)).bounded(int64(len(data)))
	b := bound.reader()

	maxStack, err := b.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading max_stack")
	}
	maxLocals, err := b.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading max_locals")
	}
	codeLength, err := b.u32()
	if err != nil {
		return nil, errors.Wrap(err, "reading code_length")
	}
	code, err := b.bytes(int(codeLength))
	if err != nil {
		return nil, errors.Wrap(err, "reading code")
	}

	exTableLen, err := b.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading exception_table_length")
	}
	handlers := make([]ExceptionHandler, exTableLen)
	for i := range handlers {
		startPC, err := b.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading exception handler %d start_pc", i)
		}
		endPC, err := b.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading exception handler %d end_pc", i)
		}
		handlerPC, err := b.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading exception handler %d handler_pc", i)
		}
		catchType, err := b.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading exception handler %d catch_type", i)
		}
		handlers[i] = ExceptionHandler{StartPC: startPC, EndPC: endPC, HandlerPC: handlerPC, CatchType: catchType}
	}

	nestedCount, err := b.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading Code nested attributes_count")
	}
	nested, err := parseRawAttributes(b, pool, nestedCount)
	if err != nil {
		return nil, errors.Wrap(err, "parsing Code nested attributes")
	}

	if err := bound.finish(); err != nil {
		return nil, errors.Wrap(err, "Code attribute")
	}

	attr := &CodeAttribute{
		MaxStack:          maxStack,
		MaxLocals:         maxLocals,
		Code:              code,
		ExceptionHandlers: handlers,
	}
	for _, n := range nested {
		switch n.Name {
		case "LineNumberTable":
			entries, err := parseLineNumberTable(n.Data)
			if err != nil {
				return nil, errors.Wrap(err, "parsing LineNumberTable")
			}
			attr.LineNumbers = entries
		case "StackMapTable":
			frames, err := parseStackMapTable(n.Data)
			if err != nil {
				return nil, errors.Wrap(err, "parsing StackMapTable")
			}
			attr.StackMapFrames = frames
		case "SourceFile":
			// not retained: this subset has no use for the source
			// file name itself.
		}
	}

	return attr, nil
}

func parseLineNumberTable(data []byte) ([]LineNumberEntry, error) {
	r := newReader(&byteSliceReader{data: data})
	count, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading line_number_table_length")
	}
	entries := make([]LineNumberEntry, count)
	for i := range entries {
		startPC, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading entry %d start_pc", i)
		}
		line, err := r.u16()
		if err != nil {
			return nil, errors.Wrapf(err, "reading entry %d line_number", i)
		}
		entries[i] = LineNumberEntry{StartPC: startPC, Line: line}
	}
	return entries, nil
}

// parseStackMapTable walks the JVMS 4.7.4 frame discriminants just far
// enough to find each frame's byte boundaries; frame bodies are kept
// opaque (spec.md §3).
func parseStackMapTable(data []byte) ([][]byte, error) {
	r := newReader(&byteSliceReader{data: data})
	count, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "reading number_of_entries")
	}
	frames := make([][]byte, count)
	for i := range frames {
		start := len(data) - remaining(r)
		frameType, err := r.u8()
		if err != nil {
			return nil, errors.Wrapf(err, "reading frame %d frame_type", i)
		}
		switch {
		case frameType <= 63: // same_frame
		case frameType <= 127: // same_locals_1_stack_item_frame
			if err := skipVerificationTypeInfo(r); err != nil {
				return nil, errors.Wrapf(err, "frame %d", i)
			}
		case frameType == 247: // same_locals_1_stack_item_frame_extended
			if _, err := r.u16(); err != nil {
				return nil, errors.Wrapf(err, "frame %d offset_delta", i)
			}
			if err := skipVerificationTypeInfo(r); err != nil {
				return nil, errors.Wrapf(err, "frame %d", i)
			}
		case frameType >= 248 && frameType <= 250: // chop_frame
			if _, err := r.u16(); err != nil {
				return nil, errors.Wrapf(err, "frame %d offset_delta", i)
			}
		case frameType == 251: // same_frame_extended
			if _, err := r.u16(); err != nil {
				return nil, errors.Wrapf(err, "frame %d offset_delta", i)
			}
		case frameType >= 252 && frameType <= 254: // append_frame
			if _, err := r.u16(); err != nil {
				return nil, errors.Wrapf(err, "frame %d offset_delta", i)
			}
			for n := 0; n < int(frameType-251); n++ {
				if err := skipVerificationTypeInfo(r); err != nil {
					return nil, errors.Wrapf(err, "frame %d local %d", i, n)
				}
			}
		case frameType == 255: // full_frame
			if _, err := r.u16(); err != nil {
				return nil, errors.Wrapf(err, "frame %d offset_delta", i)
			}
			numLocals, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "frame %d number_of_locals", i)
			}
			for n := 0; n < int(numLocals); n++ {
				if err := skipVerificationTypeInfo(r); err != nil {
					return nil, errors.Wrapf(err, "frame %d local %d", i, n)
				}
			}
			numStack, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "frame %d number_of_stack_items", i)
			}
			for n := 0; n < int(numStack); n++ {
				if err := skipVerificationTypeInfo(r); err != nil {
					return nil, errors.Wrapf(err, "frame %d stack %d", i, n)
				}
			}
		default:
			return nil, errors.Errorf("frame %d: reserved frame_type %d", i, frameType)
		}
		end := len(data) - remaining(r)
		frames[i] = data[start:end]
	}
	return frames, nil
}

func skipVerificationTypeInfo(r *reader) error {
	tag, err := r.u8()
	if err != nil {
		return errors.Wrap(err, "reading verification_type_info tag")
	}
	switch tag {
	case 7, 8: // Object_variable_info, Uninitialized_variable_info
		if _, err := r.u16(); err != nil {
			return errors.Wrap(err, "reading verification_type_info operand")
		}
	}
	return nil
}

// byteSliceReader adapts a []byte to io.Reader while letting us ask
// how much is left, for StackMapTable frame-boundary bookkeeping.
type byteSliceReader struct {
	data []byte
	pos  int
}

func (b *byteSliceReader) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

// remaining reports how many bytes are left in a *reader backed by a
// *byteSliceReader. Returns 0 for any other source.
func remaining(r *reader) int {
	if bsr, ok := r.r.(*byteSliceReader); ok {
		return len(bsr.data) - bsr.pos
	}
	return 0
}

// ClassName returns the fully qualified name of this class.
func (cf *ClassFile) ClassName() (string, error) {
	return cf.Pool.ClassName(cf.ThisClass)
}

// FindMethod finds a method by simple name only (first match) — this
// subset keys method tables by name, not (name, descriptor); see
// spec.md §9's known-bug note on overload resolution.
func (cf *ClassFile) FindMethod(name string) *MethodInfo {
	for i := range cf.Methods {
		if cf.Methods[i].Name == name {
			return &cf.Methods[i]
		}
	}
	return nil
}

package classfile

import (
	"github.com/pkg/errors"
)

// parseConstantPool reads constant_pool_count-1 entries. The returned
// pool is 1-indexed: index 0 is nil. Per spec.md §4.2, only tags
// {1,7,8,9,10,12} are supported; any other tag — including 5/6
// (Long/Double, which consume two slots and have no representation in
// this subset) — aborts parsing.
func parseConstantPool(r *reader, count uint16) (ConstantPool, error) {
	pool := make(ConstantPool, count)

	for i := uint16(1); i < count; i++ {
		tag, err := r.u8()
		if err != nil {
			return nil, errors.Wrapf(err, "reading tag at index %d", i)
		}

		switch tag {
		case TagUtf8:
			length, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading Utf8 length at index %d", i)
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return nil, errors.Wrapf(err, "reading Utf8 bytes at index %d", i)
			}
			pool[i] = &ConstantUtf8{Value: string(raw)}

		case TagClass:
			nameIndex, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading Class at index %d", i)
			}
			pool[i] = &ConstantClass{NameIndex: nameIndex}

		case TagString:
			stringIndex, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading String at index %d", i)
			}
			pool[i] = &ConstantString{StringIndex: stringIndex}

		case TagFieldref:
			classIndex, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading Fieldref class_index at index %d", i)
			}
			natIndex, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading Fieldref name_and_type_index at index %d", i)
			}
			pool[i] = &ConstantFieldref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}

		case TagMethodref:
			classIndex, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading Methodref class_index at index %d", i)
			}
			natIndex, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading Methodref name_and_type_index at index %d", i)
			}
			pool[i] = &ConstantMethodref{ClassIndex: classIndex, NameAndTypeIndex: natIndex}

		case TagNameAndType:
			nameIndex, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading NameAndType name_index at index %d", i)
			}
			descIndex, err := r.u16()
			if err != nil {
				return nil, errors.Wrapf(err, "reading NameAndType descriptor_index at index %d", i)
			}
			pool[i] = &ConstantNameAndType{NameIndex: nameIndex, DescriptorIndex: descIndex}

		case TagLong, TagDouble:
			return nil, errors.Errorf("unsupported constant pool tag %d (Long/Double) at index %d: this subset has no 64-bit constant type", tag, i)

		default:
			return nil, errors.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
	}

	return pool, nil
}

// Utf8 returns the Utf8 string at the given 1-based index.
func (p ConstantPool) Utf8(index uint16) (string, error) {
	entry, err := p.entry(index)
	if err != nil {
		return "", err
	}
	u, ok := entry.(*ConstantUtf8)
	if !ok {
		return "", errors.Errorf("constant pool index %d is not Utf8 (tag=%d)", index, entry.Tag())
	}
	return u.Value, nil
}

// ClassName resolves the class name referenced by a CONSTANT_Class
// entry.
func (p ConstantPool) ClassName(classIndex uint16) (string, error) {
	entry, err := p.entry(classIndex)
	if err != nil {
		return "", err
	}
	c, ok := entry.(*ConstantClass)
	if !ok {
		return "", errors.Errorf("constant pool index %d is not Class (tag=%d)", classIndex, entry.Tag())
	}
	return p.Utf8(c.NameIndex)
}

// String resolves a CONSTANT_String entry to its underlying text.
func (p ConstantPool) String(index uint16) (string, error) {
	entry, err := p.entry(index)
	if err != nil {
		return "", err
	}
	s, ok := entry.(*ConstantString)
	if !ok {
		return "", errors.Errorf("constant pool index %d is not String (tag=%d)", index, entry.Tag())
	}
	return p.Utf8(s.StringIndex)
}

// entry returns the raw entry at a 1-based index, failing if the index
// is out of range or unpopulated.
func (p ConstantPool) entry(index uint16) (ConstantPoolEntry, error) {
	if int(index) >= len(p) || p[index] == nil {
		return nil, errors.Errorf("invalid constant pool index %d", index)
	}
	return p[index], nil
}

// MethodRefInfo holds a resolved CONSTANT_Methodref triple.
type MethodRefInfo struct {
	ClassName  string
	MethodName string
	Descriptor string
}

// ResolveMethodref resolves a CONSTANT_Methodref entry into its class
// name, method name, and descriptor (spec.md §9: "resolve_methodref").
func (p ConstantPool) ResolveMethodref(index uint16) (*MethodRefInfo, error) {
	entry, err := p.entry(index)
	if err != nil {
		return nil, err
	}
	mref, ok := entry.(*ConstantMethodref)
	if !ok {
		return nil, errors.Errorf("constant pool index %d is not Methodref (tag=%d)", index, entry.Tag())
	}
	className, err := p.ClassName(mref.ClassIndex)
	if err != nil {
		return nil, errors.Wrap(err, "resolving Methodref class")
	}
	name, desc, err := p.resolveNameAndType(mref.NameAndTypeIndex)
	if err != nil {
		return nil, errors.Wrap(err, "resolving Methodref name_and_type")
	}
	return &MethodRefInfo{ClassName: className, MethodName: name, Descriptor: desc}, nil
}

// FieldRefInfo holds a resolved CONSTANT_Fieldref triple.
type FieldRefInfo struct {
	ClassName  string
	FieldName  string
	Descriptor string
}

// ResolveFieldref resolves a CONSTANT_Fieldref entry into its class
// name, field name, and descriptor.
func (p ConstantPool) ResolveFieldref(index uint16) (*FieldRefInfo, error) {
	entry, err := p.entry(index)
	if err != nil {
		return nil, err
	}
	fref, ok := entry.(*ConstantFieldref)
	if !ok {
		return nil, errors.Errorf("constant pool index %d is not Fieldref (tag=%d)", index, entry.Tag())
	}
	className, err := p.ClassName(fref.ClassIndex)
	if err != nil {
		return nil, errors.Wrap(err, "resolving Fieldref class")
	}
	name, desc, err := p.resolveNameAndType(fref.NameAndTypeIndex)
	if err != nil {
		return nil, errors.Wrap(err, "resolving Fieldref name_and_type")
	}
	return &FieldRefInfo{ClassName: className, FieldName: name, Descriptor: desc}, nil
}

func (p ConstantPool) resolveNameAndType(index uint16) (name, descriptor string, err error) {
	entry, err := p.entry(index)
	if err != nil {
		return "", "", err
	}
	nat, ok := entry.(*ConstantNameAndType)
	if !ok {
		return "", "", errors.Errorf("constant pool index %d is not NameAndType (tag=%d)", index, entry.Tag())
	}
	name, err = p.Utf8(nat.NameIndex)
	if err != nil {
		return "", "", errors.Wrap(err, "resolving name")
	}
	descriptor, err = p.Utf8(nat.DescriptorIndex)
	if err != nil {
		return "", "", errors.Wrap(err, "resolving descriptor")
	}
	return name, descriptor, nil
}

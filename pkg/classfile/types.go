package classfile

// Constant pool tags recognized by this subset (spec.md §4.2 and §6).
// Tags outside {1,7,8,9,10,12} are fatal; 5 and 6 (Long/Double) are
// recognized only well enough to report them as the fatal error the
// spec calls for, since they occupy two pool slots and this subset has
// no 64-bit constant type.
const (
	TagUtf8        = 1
	TagLong        = 5
	TagDouble      = 6
	TagClass       = 7
	TagString      = 8
	TagFieldref    = 9
	TagMethodref   = 10
	TagNameAndType = 12
)

// ConstantPoolEntry is implemented by every constant pool variant this
// subset understands.
type ConstantPoolEntry interface {
	Tag() uint8
}

// ConstantUtf8 holds a decoded UTF-8 string.
type ConstantUtf8 struct{ Value string }

func (*ConstantUtf8) Tag() uint8 { return TagUtf8 }

// ConstantClass resolves to a class name via NameIndex.
type ConstantClass struct{ NameIndex uint16 }

func (*ConstantClass) Tag() uint8 { return TagClass }

// ConstantString resolves to a Utf8 entry via StringIndex.
type ConstantString struct{ StringIndex uint16 }

func (*ConstantString) Tag() uint8 { return TagString }

// ConstantFieldref triples a class-ref with a name-and-type.
type ConstantFieldref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (*ConstantFieldref) Tag() uint8 { return TagFieldref }

// ConstantMethodref triples a class-ref with a name-and-type.
type ConstantMethodref struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (*ConstantMethodref) Tag() uint8 { return TagMethodref }

// ConstantNameAndType pairs a name index with a descriptor index.
type ConstantNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (*ConstantNameAndType) Tag() uint8 { return TagNameAndType }

// ConstantPool is the ordered, 1-indexed sequence of pool entries.
// Index 0 is always nil and unused; lookup(i) is defined iff
// 1 <= i < len(pool).
type ConstantPool []ConstantPoolEntry

// Access flags used by this subset.
const (
	AccPublic = 0x0001
	AccStatic = 0x0008
	AccSuper  = 0x0020
	AccNative = 0x0100
)

// ClassFile is the decoded, typed representation of a .class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         ConstantPool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []RawAttribute
}

// FieldInfo describes one field_info structure, name and descriptor
// resolved eagerly against the pool at decode time.
type FieldInfo struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []RawAttribute
}

// MethodInfo describes one method_info structure, with its Code
// attribute (if any) decoded eagerly since the interpreter always
// needs it.
type MethodInfo struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	Attributes  []RawAttribute
	Code        *CodeAttribute
}

// RawAttribute is an attribute before kind-specific decoding: the name
// (resolved against the already-parsed pool at decode time) and its
// raw payload bytes.
type RawAttribute struct {
	Name string
	Data []byte
}

// ExceptionHandler is one entry of a Code attribute's exception table.
// This subset never installs a handler (no exceptions, spec.md §1) but
// the table is still decoded and stored for round-trip fidelity.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// LineNumberEntry is one (start_pc, line_number) pair of a
// LineNumberTable attribute.
type LineNumberEntry struct {
	StartPC uint16
	Line    uint16
}

// CodeAttribute is the decoded body of a "Code" attribute.
type CodeAttribute struct {
	MaxStack          uint16
	MaxLocals         uint16
	Code              []byte
	ExceptionHandlers []ExceptionHandler
	LineNumbers       []LineNumberEntry
	// StackMapFrames holds the raw, opaque bodies of a StackMapTable
	// attribute's frames — decoded enough to find their boundaries,
	// not interpreted (spec.md §3: "frame bodies decoded but contents
	// retained opaque for this subset").
	StackMapFrames [][]byte
}

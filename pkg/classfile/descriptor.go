package classfile

import (
	"strings"

	"github.com/pkg/errors"
)

// FieldType is a parsed field descriptor (JVMS §4.3.2): a base type,
// an object type, or an array of any dimension, each level nested
// through Element.
type FieldType struct {
	Kind      FieldKind
	ClassName string     // set when Kind == KindObject
	Element   *FieldType // set when Kind == KindArray
}

type FieldKind int

const (
	KindByte FieldKind = iota
	KindChar
	KindDouble
	KindFloat
	KindInt
	KindLong
	KindShort
	KindBoolean
	KindObject
	KindArray
)

func (f FieldType) String() string {
	switch f.Kind {
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindDouble:
		return "double"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindShort:
		return "short"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return f.ClassName
	case KindArray:
		return f.Element.String() + "[]"
	default:
		return "?"
	}
}

// MethodDescriptor is a parsed method descriptor: an ordered parameter
// list and a return type, where a nil ReturnType denotes void.
type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType *FieldType
}

// ParseMethodDescriptor parses a method descriptor of the form
// "(ParameterDescriptor*)ReturnDescriptor" (spec.md §4.3). Any
// unparsed suffix or malformed component is a decode error.
func ParseMethodDescriptor(descriptor string) (*MethodDescriptor, error) {
	if len(descriptor) == 0 || descriptor[0] != '(' {
		return nil, errors.Errorf("method descriptor %q: missing opening '('", descriptor)
	}
	rest := descriptor[1:]

	var params []FieldType
	for len(rest) > 0 && rest[0] != ')' {
		ft, consumed, err := parseFieldType(rest)
		if err != nil {
			return nil, errors.Wrapf(err, "method descriptor %q: parsing parameter %d", descriptor, len(params))
		}
		params = append(params, ft)
		rest = rest[consumed:]
	}
	if len(rest) == 0 {
		return nil, errors.Errorf("method descriptor %q: missing closing ')'", descriptor)
	}
	rest = rest[1:] // consume ')'

	if rest == "V" {
		return &MethodDescriptor{Parameters: params, ReturnType: nil}, nil
	}

	ret, consumed, err := parseFieldType(rest)
	if err != nil {
		return nil, errors.Wrapf(err, "method descriptor %q: parsing return type", descriptor)
	}
	if consumed != len(rest) {
		return nil, errors.Errorf("method descriptor %q: unparsed suffix %q after return type", descriptor, rest[consumed:])
	}
	return &MethodDescriptor{Parameters: params, ReturnType: &ret}, nil
}

// ParseFieldDescriptor parses a single field descriptor and rejects
// any unparsed suffix.
func ParseFieldDescriptor(descriptor string) (*FieldType, error) {
	ft, consumed, err := parseFieldType(descriptor)
	if err != nil {
		return nil, errors.Wrapf(err, "field descriptor %q", descriptor)
	}
	if consumed != len(descriptor) {
		return nil, errors.Errorf("field descriptor %q: unparsed suffix %q", descriptor, descriptor[consumed:])
	}
	return &ft, nil
}

// parseFieldType consumes one FieldDescriptor from the front of s,
// returning how many bytes it consumed.
func parseFieldType(s string) (FieldType, int, error) {
	if len(s) == 0 {
		return FieldType{}, 0, errors.New("empty descriptor")
	}
	switch s[0] {
	case 'B':
		return FieldType{Kind: KindByte}, 1, nil
	case 'C':
		return FieldType{Kind: KindChar}, 1, nil
	case 'D':
		return FieldType{Kind: KindDouble}, 1, nil
	case 'F':
		return FieldType{Kind: KindFloat}, 1, nil
	case 'I':
		return FieldType{Kind: KindInt}, 1, nil
	case 'J':
		return FieldType{Kind: KindLong}, 1, nil
	case 'S':
		return FieldType{Kind: KindShort}, 1, nil
	case 'Z':
		return FieldType{Kind: KindBoolean}, 1, nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return FieldType{}, 0, errors.Errorf("unterminated object type in %q", s)
		}
		className := s[1:end]
		return FieldType{Kind: KindObject, ClassName: className}, end + 1, nil
	case '[':
		elem, consumed, err := parseFieldType(s[1:])
		if err != nil {
			return FieldType{}, 0, errors.Wrap(err, "parsing array element type")
		}
		return FieldType{Kind: KindArray, Element: &elem}, consumed + 1, nil
	default:
		return FieldType{}, 0, errors.Errorf("unrecognized descriptor character %q in %q", s[0], s)
	}
}

package runtime

import (
	"github.com/pkg/errors"

	"github.com/gojclass/classrun/pkg/classfile"
)

// resolveLdc implements the ldc opcode's only supported constant kind
// in this subset: a CONSTANT_String resolving to its UTF-8 target
// (spec.md §4.5).
func resolveLdc(pool classfile.ConstantPool, index uint16) (Value, error) {
	s, err := pool.String(index)
	if err != nil {
		return Value{}, errors.Wrap(err, "ldc: only String constants are supported in this subset")
	}
	return Str(s), nil
}

func execGetstatic(env *Environment, pool classfile.ConstantPool, frame *Frame) error {
	index, err := frame.readU16()
	if err != nil {
		return err
	}
	field, err := pool.ResolveFieldref(index)
	if err != nil {
		return err
	}
	class, err := env.LoadClass(field.ClassName)
	if err != nil {
		return err
	}
	v, ok := class.StaticFields[field.FieldName]
	if !ok {
		return errors.Errorf("unknown static field %s.%s", field.ClassName, field.FieldName)
	}
	return frame.Push(v)
}

func execGetfield(pool classfile.ConstantPool, frame *Frame) error {
	index, err := frame.readU16()
	if err != nil {
		return err
	}
	field, err := pool.ResolveFieldref(index)
	if err != nil {
		return err
	}
	objVal, err := frame.Pop()
	if err != nil {
		return err
	}
	if objVal.Kind != KindObject || objVal.Obj == nil {
		return errors.Errorf("getfield %s: receiver is not an object", field.FieldName)
	}
	return frame.Push(objVal.Obj.GetField(field.FieldName))
}

func execPutfield(pool classfile.ConstantPool, frame *Frame) error {
	index, err := frame.readU16()
	if err != nil {
		return err
	}
	field, err := pool.ResolveFieldref(index)
	if err != nil {
		return err
	}
	value, err := frame.Pop()
	if err != nil {
		return err
	}
	objVal, err := frame.Pop()
	if err != nil {
		return err
	}
	if objVal.Kind != KindObject || objVal.Obj == nil {
		return errors.Errorf("putfield %s: receiver is not an object", field.FieldName)
	}
	objVal.Obj.SetField(field.FieldName, value)
	return nil
}

// execInvoke implements invokevirtual/invokespecial (hasReceiver=true)
// and invokestatic (hasReceiver=false). Resolution dispatches by the
// declared class name in the methodref; there is no vtable in this
// subset (spec.md §4.5).
func execInvoke(env *Environment, pool classfile.ConstantPool, frame *Frame, hasReceiver bool) error {
	index, err := frame.readU16()
	if err != nil {
		return err
	}
	ref, err := pool.ResolveMethodref(index)
	if err != nil {
		return err
	}
	desc, err := classfile.ParseMethodDescriptor(ref.Descriptor)
	if err != nil {
		return errors.Wrapf(err, "parsing descriptor for %s.%s", ref.ClassName, ref.MethodName)
	}

	n := len(desc.Parameters)
	params := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		params[i], err = frame.Pop()
		if err != nil {
			return err
		}
	}

	var locals []Value
	if hasReceiver {
		receiver, err := frame.Pop()
		if err != nil {
			return err
		}
		locals = append([]Value{receiver}, params...)
	} else {
		locals = params
	}

	class, err := env.LoadClass(ref.ClassName)
	if err != nil {
		return err
	}
	method := class.FindMethod(ref.MethodName)
	if method == nil {
		return errors.Errorf("unknown method %s.%s%s", ref.ClassName, ref.MethodName, ref.Descriptor)
	}

	result, err := Invoke(env, method, locals)
	if err != nil {
		return errors.Wrapf(err, "invoking %s.%s%s", ref.ClassName, ref.MethodName, ref.Descriptor)
	}
	if desc.ReturnType != nil {
		return frame.Push(result)
	}
	return nil
}

func execNew(env *Environment, pool classfile.ConstantPool, frame *Frame) error {
	index, err := frame.readU16()
	if err != nil {
		return err
	}
	className, err := pool.ClassName(index)
	if err != nil {
		return err
	}
	class, err := env.LoadClass(className)
	if err != nil {
		return err
	}
	return frame.Push(ObjRef(NewObject(class)))
}

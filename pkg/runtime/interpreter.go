package runtime

import "github.com/pkg/errors"

// Invoke runs method with the given locals (spec.md §4.5: for
// virtual/special calls locals[0] is the receiver; for static calls
// locals holds only the parameters). A native method receives locals
// verbatim as its args; a bytecode method runs the dispatch loop to
// completion.
func Invoke(env *Environment, method *Method, locals []Value) (Value, error) {
	env.Trace.Call(method.Class.Name, method.Name, method.Descriptor)

	if method.Native != nil {
		return method.Native(env, locals)
	}
	if method.Code == nil {
		return Value{}, errors.Errorf("method %s.%s%s has neither Code nor a native body", method.Class.Name, method.Name, method.Descriptor)
	}

	frame := NewFrame(method, method.Code.MaxLocals, method.Code.MaxStack, method.Code.Code)
	if len(locals) > len(frame.Locals) {
		return Value{}, errors.Errorf("method %s.%s: %d incoming locals exceed max_locals=%d", method.Class.Name, method.Name, len(locals), len(frame.Locals))
	}
	copy(frame.Locals, locals)

	return run(env, frame)
}

// run executes frame's code to completion, returning the value handed
// to ireturn, or Void for a bare return (spec.md §4.5). A method whose
// code falls off the end without reaching a return opcode is a fatal
// error (spec.md §4.5 "Return discipline").
func run(env *Environment, frame *Frame) (Value, error) {
	pool := frame.Method.Class.File.Pool

	for {
		if frame.PC >= len(frame.Code) {
			return Value{}, errors.Errorf("method %s.%s: fell off the end of code without a return", frame.Method.Class.Name, frame.Method.Name)
		}
		opcodePC := frame.PC
		opcode := frame.Code[frame.PC]
		frame.PC++
		env.Trace.Step(opcodePC, opcode)

		switch opcode {
		case opIconstM1:
			if err := frame.Push(Int(-1)); err != nil {
				return Value{}, err
			}
		case opIconst0, opIconst1, opIconst2, opIconst3, opIconst4, opIconst5:
			if err := frame.Push(Int(int32(opcode - opIconst0))); err != nil {
				return Value{}, err
			}

		case opBipush:
			v, err := frame.readI8()
			if err != nil {
				return Value{}, err
			}
			if err := frame.Push(Int(int32(v))); err != nil {
				return Value{}, err
			}

		case opLdc:
			index, err := frame.readU8()
			if err != nil {
				return Value{}, err
			}
			v, err := resolveLdc(pool, uint16(index))
			if err != nil {
				return Value{}, errors.Wrapf(err, "ldc at pc=%d", opcodePC)
			}
			if err := frame.Push(v); err != nil {
				return Value{}, err
			}

		case opIload:
			index, err := frame.readU8()
			if err != nil {
				return Value{}, err
			}
			if err := pushLocal(frame, int(index)); err != nil {
				return Value{}, err
			}
		case opIload0, opIload1, opIload2, opIload3:
			if err := pushLocal(frame, int(opcode-opIload0)); err != nil {
				return Value{}, err
			}

		case opAload0, opAload1:
			if err := pushLocal(frame, int(opcode-opAload0)); err != nil {
				return Value{}, err
			}

		case opIstore:
			index, err := frame.readU8()
			if err != nil {
				return Value{}, err
			}
			if err := popIntoLocal(frame, int(index)); err != nil {
				return Value{}, err
			}
		case opIstore0, opIstore1, opIstore2, opIstore3:
			if err := popIntoLocal(frame, int(opcode-opIstore0)); err != nil {
				return Value{}, err
			}

		case opAstore1:
			if err := popIntoLocal(frame, 1); err != nil {
				return Value{}, err
			}

		case opDup:
			v, err := frame.Pop()
			if err != nil {
				return Value{}, err
			}
			if err := frame.Push(v); err != nil {
				return Value{}, err
			}
			if err := frame.Push(v); err != nil {
				return Value{}, err
			}

		case opIadd, opImul, opIdiv:
			if err := binaryIntOp(frame, opcode); err != nil {
				return Value{}, err
			}

		case opIinc:
			index, err := frame.readU8()
			if err != nil {
				return Value{}, err
			}
			delta, err := frame.readI8()
			if err != nil {
				return Value{}, err
			}
			local, err := frame.GetLocal(int(index))
			if err != nil {
				return Value{}, err
			}
			if local.Kind != KindInt {
				return Value{}, errors.Errorf("iinc at pc=%d: local %d is not an int", opcodePC, index)
			}
			if err := frame.SetLocal(int(index), Int(local.Int+int32(delta))); err != nil {
				return Value{}, err
			}

		case opIfIcmpge:
			offset, err := frame.readI16()
			if err != nil {
				return Value{}, err
			}
			b, err := frame.Pop()
			if err != nil {
				return Value{}, err
			}
			a, err := frame.Pop()
			if err != nil {
				return Value{}, err
			}
			if a.Kind != KindInt || b.Kind != KindInt {
				return Value{}, errors.Errorf("if_icmpge at pc=%d: operand type mismatch", opcodePC)
			}
			if a.Int >= b.Int {
				frame.PC = opcodePC + int(offset)
			}

		case opGoto:
			offset, err := frame.readI16()
			if err != nil {
				return Value{}, err
			}
			frame.PC = opcodePC + int(offset)

		case opTableswitch:
			if err := execTableswitch(frame, opcodePC); err != nil {
				return Value{}, err
			}

		case opIreturn:
			v, err := frame.Pop()
			if err != nil {
				return Value{}, err
			}
			return v, nil

		case opReturnOp:
			return Void, nil

		case opGetstatic:
			if err := execGetstatic(env, pool, frame); err != nil {
				return Value{}, errors.Wrapf(err, "getstatic at pc=%d", opcodePC)
			}

		case opGetfield:
			if err := execGetfield(pool, frame); err != nil {
				return Value{}, errors.Wrapf(err, "getfield at pc=%d", opcodePC)
			}

		case opPutfield:
			if err := execPutfield(pool, frame); err != nil {
				return Value{}, errors.Wrapf(err, "putfield at pc=%d", opcodePC)
			}

		case opInvokevirtual, opInvokespecial:
			if err := execInvoke(env, pool, frame, true); err != nil {
				return Value{}, errors.Wrapf(err, "invoke at pc=%d", opcodePC)
			}

		case opInvokestatic:
			if err := execInvoke(env, pool, frame, false); err != nil {
				return Value{}, errors.Wrapf(err, "invokestatic at pc=%d", opcodePC)
			}

		case opNew:
			if err := execNew(env, pool, frame); err != nil {
				return Value{}, errors.Wrapf(err, "new at pc=%d", opcodePC)
			}

		default:
			return Value{}, errors.Errorf("unsupported opcode 0x%02X at pc=%d", opcode, opcodePC)
		}
	}
}

func pushLocal(frame *Frame, index int) error {
	v, err := frame.GetLocal(index)
	if err != nil {
		return err
	}
	if v.Kind == KindVoid {
		return errors.Errorf("reading uninitialized local variable %d", index)
	}
	return frame.Push(v)
}

func popIntoLocal(frame *Frame, index int) error {
	v, err := frame.Pop()
	if err != nil {
		return err
	}
	return frame.SetLocal(index, v)
}

func binaryIntOp(frame *Frame, opcode byte) error {
	b, err := frame.Pop()
	if err != nil {
		return err
	}
	a, err := frame.Pop()
	if err != nil {
		return err
	}
	if a.Kind != KindInt || b.Kind != KindInt {
		return errors.Errorf("arithmetic opcode 0x%02X: operand type mismatch", opcode)
	}
	var result int32
	switch opcode {
	case opIadd:
		result = a.Int + b.Int
	case opImul:
		result = a.Int * b.Int
	case opIdiv:
		if b.Int == 0 {
			return errors.New("division by zero")
		}
		result = a.Int / b.Int
	}
	return frame.Push(Int(result))
}

// execTableswitch implements the opTableswitch opcode per spec.md
// §4.5: align to the next 4-byte boundary past the opcode, read
// default/low/high, then (high-low+1) jump offsets, all relative to
// opcodePC.
func execTableswitch(frame *Frame, opcodePC int) error {
	pad := (4 - (frame.PC % 4)) % 4
	frame.PC += pad

	defaultOffset, err := frame.readI32()
	if err != nil {
		return errors.Wrap(err, "tableswitch default")
	}
	low, err := frame.readI32()
	if err != nil {
		return errors.Wrap(err, "tableswitch low")
	}
	high, err := frame.readI32()
	if err != nil {
		return errors.Wrap(err, "tableswitch high")
	}
	if high < low {
		return errors.Errorf("tableswitch: high (%d) < low (%d)", high, low)
	}
	offsets := make([]int32, high-low+1)
	for i := range offsets {
		offsets[i], err = frame.readI32()
		if err != nil {
			return errors.Wrapf(err, "tableswitch offset %d", i)
		}
	}

	index, err := frame.Pop()
	if err != nil {
		return err
	}
	if index.Kind != KindInt {
		return errors.New("tableswitch: index is not an int")
	}

	if index.Int >= low && index.Int <= high {
		frame.PC = opcodePC + int(offsets[index.Int-low])
	} else {
		frame.PC = opcodePC + int(defaultOffset)
	}
	return nil
}

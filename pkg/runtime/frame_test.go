package runtime

import "testing"

func TestFramePushPop(t *testing.T) {
	t.Run("LIFO order", func(t *testing.T) {
		f := NewFrame(nil, 0, 10, nil)

		must(t, f.Push(Int(10)))
		must(t, f.Push(Int(20)))
		must(t, f.Push(Int(30)))

		if v := pop(t, f); v.Int != 30 {
			t.Errorf("first Pop: got %d, want 30", v.Int)
		}
		if v := pop(t, f); v.Int != 20 {
			t.Errorf("second Pop: got %d, want 20", v.Int)
		}
		if v := pop(t, f); v.Int != 10 {
			t.Errorf("third Pop: got %d, want 10", v.Int)
		}
	})

	t.Run("underflow is an error", func(t *testing.T) {
		f := NewFrame(nil, 0, 10, nil)
		if _, err := f.Pop(); err == nil {
			t.Error("expected underflow error, got nil")
		}
	})

	t.Run("overflow is an error", func(t *testing.T) {
		f := NewFrame(nil, 0, 1, nil)
		must(t, f.Push(Int(1)))
		if err := f.Push(Int(2)); err == nil {
			t.Error("expected overflow error, got nil")
		}
	})
}

func TestFrameLocals(t *testing.T) {
	t.Run("uninitialized slot starts Void", func(t *testing.T) {
		f := NewFrame(nil, 4, 0, nil)
		v, err := f.GetLocal(0)
		if err != nil {
			t.Fatalf("GetLocal: %v", err)
		}
		if v.Kind != KindVoid {
			t.Errorf("local 0: got kind %v, want KindVoid", v.Kind)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		f := NewFrame(nil, 4, 0, nil)
		must(t, f.SetLocal(2, Int(30)))
		v, err := f.GetLocal(2)
		if err != nil {
			t.Fatalf("GetLocal: %v", err)
		}
		if v.Int != 30 {
			t.Errorf("local 2: got %d, want 30", v.Int)
		}
	})

	t.Run("out of range index is an error", func(t *testing.T) {
		f := NewFrame(nil, 2, 0, nil)
		if _, err := f.GetLocal(5); err == nil {
			t.Error("expected out-of-range error, got nil")
		}
		if err := f.SetLocal(-1, Int(0)); err == nil {
			t.Error("expected out-of-range error, got nil")
		}
	})
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func pop(t *testing.T, f *Frame) Value {
	t.Helper()
	v, err := f.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	return v
}

package classfile

import "testing"

func TestParseFieldDescriptor(t *testing.T) {
	cases := []struct {
		descriptor string
		want       string
	}{
		{"I", "int"},
		{"B", "byte"},
		{"C", "char"},
		{"D", "double"},
		{"F", "float"},
		{"J", "long"},
		{"S", "short"},
		{"Z", "boolean"},
		{"Ljava/lang/String;", "java/lang/String"},
		{"[I", "int[]"},
		{"[[I", "int[][]"},
	}
	for _, c := range cases {
		ft, err := ParseFieldDescriptor(c.descriptor)
		if err != nil {
			t.Errorf("ParseFieldDescriptor(%q): %v", c.descriptor, err)
			continue
		}
		if ft.String() != c.want {
			t.Errorf("ParseFieldDescriptor(%q): got %q, want %q", c.descriptor, ft.String(), c.want)
		}
	}
}

func TestParseFieldDescriptorErrors(t *testing.T) {
	cases := []string{"", "Q", "Ljava/lang/String", "II"}
	for _, c := range cases {
		if _, err := ParseFieldDescriptor(c); err == nil {
			t.Errorf("ParseFieldDescriptor(%q): expected error, got nil", c)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	md, err := ParseMethodDescriptor("(IILjava/lang/String;)V")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if len(md.Parameters) != 3 {
		t.Fatalf("Parameters: got %d, want 3", len(md.Parameters))
	}
	if md.Parameters[0].Kind != KindInt || md.Parameters[1].Kind != KindInt {
		t.Errorf("Parameters[0:2]: want int,int got %+v", md.Parameters[:2])
	}
	if md.Parameters[2].Kind != KindObject || md.Parameters[2].ClassName != "java/lang/String" {
		t.Errorf("Parameters[2]: got %+v", md.Parameters[2])
	}
	if md.ReturnType != nil {
		t.Errorf("ReturnType: got %+v, want nil (void)", md.ReturnType)
	}
}

func TestParseMethodDescriptorReturnType(t *testing.T) {
	md, err := ParseMethodDescriptor("(I)I")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if md.ReturnType == nil || md.ReturnType.Kind != KindInt {
		t.Errorf("ReturnType: got %+v, want int", md.ReturnType)
	}
}

func TestParseMethodDescriptorErrors(t *testing.T) {
	cases := []string{"", "(I", "(I)", "(I)IX", "(Q)V"}
	for _, c := range cases {
		if _, err := ParseMethodDescriptor(c); err == nil {
			t.Errorf("ParseMethodDescriptor(%q): expected error, got nil", c)
		}
	}
}

package pin

import "testing"

func TestTransitionNot(t *testing.T) {
	if Rise.Not() != Fall {
		t.Errorf("Rise.Not() = %v, want Fall", Rise.Not())
	}
	if Fall.Not() != Rise {
		t.Errorf("Fall.Not() = %v, want Rise", Fall.Not())
	}
}

func TestTransitionString(t *testing.T) {
	if Rise.String() != "rise" {
		t.Errorf("Rise.String() = %q", Rise.String())
	}
	if Fall.String() != "fall" {
		t.Errorf("Fall.String() = %q", Fall.String())
	}
}

func TestJoin(t *testing.T) {
	cases := []struct {
		components []string
		index      int
		want       Pin
	}{
		{[]string{"u1", "A"}, -1, "u1/A"},
		{[]string{"u1", "Q"}, 3, "u1/Q[3]"},
		{[]string{"CLK"}, -1, "CLK"},
	}
	for _, c := range cases {
		if got := Join(c.components, c.index); got != c.want {
			t.Errorf("Join(%v, %d) = %q, want %q", c.components, c.index, got, c.want)
		}
	}
}

func TestInstanceAndLocal(t *testing.T) {
	p := Pin("u1/u2/A")
	if p.Instance() != Instance("u1/u2") {
		t.Errorf("Instance() = %q, want u1/u2", p.Instance())
	}
	if p.Local() != "A" {
		t.Errorf("Local() = %q, want A", p.Local())
	}

	top := Pin("CLK")
	if top.Instance() != Instance("") {
		t.Errorf("top-level Instance() = %q, want empty", top.Instance())
	}
	if top.Local() != "CLK" {
		t.Errorf("top-level Local() = %q, want CLK", top.Local())
	}
}

func TestIsTopLevel(t *testing.T) {
	if !Pin("CLK").IsTopLevel() {
		t.Error("CLK should be top-level")
	}
	if Pin("u1/A").IsTopLevel() {
		t.Error("u1/A should not be top-level")
	}
}

func TestWithinInstance(t *testing.T) {
	cases := []struct {
		inst  Instance
		port  string
		index int
		want  Pin
	}{
		{"u1", "A", -1, "u1/A"},
		{"u1", "Q", 2, "u1/Q[2]"},
		{"", "A", -1, "A"},
		{"", "Q", 1, "Q[1]"},
	}
	for _, c := range cases {
		if got := WithinInstance(c.inst, c.port, c.index); got != c.want {
			t.Errorf("WithinInstance(%q, %q, %d) = %q, want %q", c.inst, c.port, c.index, got, c.want)
		}
	}
}

func TestLess(t *testing.T) {
	a := TransitionPin{Pin: "u1/A", Transition: Rise}
	b := TransitionPin{Pin: "u1/A", Transition: Fall}
	c := TransitionPin{Pin: "u1/B", Transition: Rise}

	if !Less(a, b) {
		t.Error("same pin, rise should sort before fall")
	}
	if Less(b, a) {
		t.Error("fall should not sort before rise for the same pin")
	}
	if !Less(a, c) {
		t.Error("u1/A should sort before u1/B")
	}
}

func TestTransitionPinString(t *testing.T) {
	tp := TransitionPin{Pin: "u1/A", Transition: Rise}
	if got, want := tp.String(), "u1/A/rise"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

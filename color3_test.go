package marionette

import (
	"encoding/json"
	"testing"
)

func TestColor3Clamps(t *testing.T) {
	c := NewColor3(-10, 128, 300)
	if c.R() != 0 || c.G() != 128 || c.B() != 255 {
		t.Errorf("NewColor3 = %v, want (0, 128, 255)", c)
	}

	c.SetR(999)
	c.SetG(-1)
	c.SetB(42)
	if c.R() != 255 || c.G() != 0 || c.B() != 42 {
		t.Errorf("after setters = %v", c)
	}
}

func TestColor3Floats(t *testing.T) {
	c := NewColor3(0, 51, 255)
	if c.RFloat() != 0 {
		t.Errorf("RFloat = %v, want exactly 0", c.RFloat())
	}
	assertNear(t, "GFloat", c.GFloat(), 0.2)
	assertNear(t, "BFloat", c.BFloat(), 1)
}

func TestColor3String(t *testing.T) {
	if got := NewColor3(1, 2, 3).String(); got != "(1, 2, 3)" {
		t.Errorf("String = %q", got)
	}
}

func TestColor3JSON(t *testing.T) {
	b, err := json.Marshal(NewColor3(10, 20, 30))
	if err != nil {
		t.Fatal(err)
	}
	var c Color3
	if err := json.Unmarshal(b, &c); err != nil {
		t.Fatal(err)
	}
	if c != NewColor3(10, 20, 30) {
		t.Errorf("decoded %v from %s", c, b)
	}

	if err := json.Unmarshal([]byte(`{"r":254.6,"g":-3,"b":400}`), &c); err != nil {
		t.Fatal(err)
	}
	if c != NewColor3(255, 0, 255) {
		t.Errorf("decoded %v, want rounded and clamped", c)
	}
}

package marionette

import (
	"encoding/json"
	"fmt"
	"math"
)

// Color3 is an RGB color with integer components clamped to [0, 255].
// The zero value is black.
type Color3 struct {
	r, g, b int
}

// ColorWhite is the color every actor starts with.
var ColorWhite = Color3{255, 255, 255}

// NewColor3 returns a color with each component clamped to [0, 255].
func NewColor3(r, g, b int) Color3 {
	return Color3{clampByte(r), clampByte(g), clampByte(b)}
}

func clampByte(c int) int {
	if c < 0 {
		return 0
	}
	if c > 255 {
		return 255
	}
	return c
}

// R returns the red component.
func (c Color3) R() int { return c.r }

// G returns the green component.
func (c Color3) G() int { return c.g }

// B returns the blue component.
func (c Color3) B() int { return c.b }

// RFloat returns the red component in [0, 1].
func (c Color3) RFloat() float64 { return float64(c.r) / 255 }

// GFloat returns the green component in [0, 1].
func (c Color3) GFloat() float64 { return float64(c.g) / 255 }

// BFloat returns the blue component in [0, 1].
func (c Color3) BFloat() float64 { return float64(c.b) / 255 }

// SetR sets the red component, clamped to [0, 255].
func (c *Color3) SetR(v int) { c.r = clampByte(v) }

// SetG sets the green component, clamped to [0, 255].
func (c *Color3) SetG(v int) { c.g = clampByte(v) }

// SetB sets the blue component, clamped to [0, 255].
func (c *Color3) SetB(v int) { c.b = clampByte(v) }

func (c Color3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.r, c.g, c.b)
}

type colorJSON struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// MarshalJSON encodes the color as {"r":..,"g":..,"b":..}.
func (c Color3) MarshalJSON() ([]byte, error) {
	return json.Marshal(colorJSON{float64(c.r), float64(c.g), float64(c.b)})
}

// UnmarshalJSON accepts integer or fractional components and rounds them.
func (c *Color3) UnmarshalJSON(data []byte) error {
	var raw colorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = NewColor3(int(math.Round(raw.R)), int(math.Round(raw.G)), int(math.Round(raw.B)))
	return nil
}

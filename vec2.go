package marionette

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector used for positions, offsets and sizes throughout the
// API. Operations never modify the receiver; they return a new value.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Negative returns (-X, -Y).
func (v Vec2) Negative() Vec2 {
	return Vec2{-v.X, -v.Y}
}

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// AddScalar adds s to both components.
func (v Vec2) AddScalar(s float64) Vec2 {
	return Vec2{v.X + s, v.Y + s}
}

// Sub returns the component-wise difference v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// SubScalar subtracts s from both components.
func (v Vec2) SubScalar(s float64) Vec2 {
	return Vec2{v.X - s, v.Y - s}
}

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{v.X * o.X, v.Y * o.Y}
}

// MulScalar scales both components by s.
func (v Vec2) MulScalar(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Div returns the component-wise quotient v / o.
func (v Vec2) Div(o Vec2) Vec2 {
	return Vec2{v.X / o.X, v.Y / o.Y}
}

// DivScalar divides both components by s.
func (v Vec2) DivScalar(s float64) Vec2 {
	return Vec2{v.X / s, v.Y / s}
}

// Equals reports exact component equality.
func (v Vec2) Equals(o Vec2) bool {
	return v.X == o.X && v.Y == o.Y
}

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Ortho returns the clockwise perpendicular (Y, -X).
func (v Vec2) Ortho() Vec2 {
	return Vec2{v.Y, -v.X}
}

// Length returns the Euclidean length.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector yields NaN
// components.
func (v Vec2) Normalize() Vec2 {
	return v.DivScalar(v.Length())
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

package bt

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3         { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3         { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3    { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Len() float64            { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Distance(o Vec3) float64 { return o.Sub(v).Len() }

// Transform is a scene object a tree can be bound to.
type Transform interface {
	Position() Vec3
	SetPosition(p Vec3)
}

// Bindings exposes the host objects bound to a tree. Any lookup may come back empty.
type Bindings interface {
	Transform() (Transform, bool)
}

// Point is a minimal Transform.
type Point struct {
	Pos Vec3
}

func (p *Point) Position() Vec3     { return p.Pos }
func (p *Point) SetPosition(v Vec3) { p.Pos = v }

// StaticBindings binds a fixed transform, or none when T is nil. A nil *Point
// counts as unbound; other Transform implementations must not be typed nils.
type StaticBindings struct {
	T Transform
}

func (b StaticBindings) Transform() (Transform, bool) {
	if p, ok := b.T.(*Point); ok && p == nil {
		return nil, false
	}
	return b.T, b.T != nil
}

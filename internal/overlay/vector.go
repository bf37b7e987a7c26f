package overlay

import (
	"fmt"
	"math"
)

func (v Vector) String() string {
	return fmt.Sprintf("Vector(%g, %g, %g)", v.X, v.Y, v.Z)
}

func (v Vector) Add(o Vector) Vector    { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector) Sub(o Vector) Vector    { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector) Scale(f float32) Vector { return Vector{v.X * f, v.Y * f, v.Z * f} }
func (v Vector) Neg() Vector            { return Vector{-v.X, -v.Y, -v.Z} }

// Rotate multiplies the vector by a rotation matrix, row by row.
func (v Vector) Rotate(r RotMatrix) Vector {
	return Vector{
		r.X1*v.X + r.Y1*v.Y + r.Z1*v.Z,
		r.X2*v.X + r.Y2*v.Y + r.Z2*v.Z,
		r.X3*v.X + r.Y3*v.Y + r.Z3*v.Z,
	}
}

func (v Vector) Cross(o Vector) Vector {
	return Vector{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector) Dot(o Vector) float64 {
	return float64(v.X)*float64(o.X) + float64(v.Y)*float64(o.Y) + float64(v.Z)*float64(o.Z)
}

func (v Vector) LengthSquare() float64 { return v.Dot(v) }
func (v Vector) Length() float64       { return math.Sqrt(v.LengthSquare()) }

func (v Vector) DistSquare(o Vector) float32 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

func (v Vector) Dist(o Vector) float32 {
	return float32(math.Sqrt(float64(v.DistSquare(o))))
}

// Normalize scales v in place to unit length. A zero vector stays zero.
func (v *Vector) Normalize() {
	l := v.Length()
	if l == 0 {
		return
	}
	*v = v.Scale(float32(1 / l))
}

// BlockPos is the 4-unit map block containing v.
func (v Vector) BlockPos() (x, y, z int) {
	return int(math.Floor(float64(v.X / 4))), int(math.Floor(float64(v.Y / 4))), int(math.Floor(float64(v.Z / 4)))
}

func (r RotMatrix) String() string {
	return fmt.Sprintf("RotMatrix(%g, %g, %g, %g, %g, %g, %g, %g, %g)",
		r.X1, r.Y1, r.Z1, r.X2, r.Y2, r.Z2, r.X3, r.Y3, r.Z3)
}

func (r RotMatrix) Mul(o RotMatrix) RotMatrix {
	return RotMatrix{
		X1: r.X1*o.X1 + r.Y1*o.X2 + r.Z1*o.X3,
		Y1: r.X1*o.Y1 + r.Y1*o.Y2 + r.Z1*o.Y3,
		Z1: r.X1*o.Z1 + r.Y1*o.Z2 + r.Z1*o.Z3,
		X2: r.X2*o.X1 + r.Y2*o.X2 + r.Z2*o.X3,
		Y2: r.X2*o.Y1 + r.Y2*o.Y2 + r.Z2*o.Y3,
		Z2: r.X2*o.Z1 + r.Y2*o.Z2 + r.Z2*o.Z3,
		X3: r.X3*o.X1 + r.Y3*o.X2 + r.Z3*o.X3,
		Y3: r.X3*o.Y1 + r.Y3*o.Y2 + r.Z3*o.Y3,
		Z3: r.X3*o.Z1 + r.Y3*o.Z2 + r.Z3*o.Z3,
	}
}

func (r RotMatrix) Right() Vector   { return Vector{r.X1, r.Y1, r.Z1} }
func (r RotMatrix) Up() Vector      { return Vector{r.X2, r.Y2, r.Z2} }
func (r RotMatrix) Forward() Vector { return Vector{r.X3, r.Y3, r.Z3} }

// Identity is the unrotated orientation.
var Identity = RotMatrix{X1: 1, Y2: 1, Z3: 1}

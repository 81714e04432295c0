package ikmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"
)

// Epsilon is the tolerance below which a length is treated as zero.
const Epsilon = 1e-9

// upAxisSign flips the pole direction onto local -Y.
const upAxisSign = -1.0

func nearZero(v float64) bool {
	return scalar.EqualWithinAbs(v, 0, Epsilon)
}

// normalize returns v scaled to unit length, or false when v has no direction.
func normalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if nearZero(l) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// clampUnit keeps acos inputs inside its domain when rounding pushes a
// cosine ratio just past +/-1.
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Translation returns the translation column of m.
func Translation(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// WithTranslation returns m with its translation column replaced by t.
func WithTranslation(m mgl64.Mat4, t mgl64.Vec3) mgl64.Mat4 {
	m.SetCol(3, t.Vec4(1))
	return m
}

// Scale returns the length of each basis column of m.
func Scale(m mgl64.Mat4) mgl64.Vec3 {
	return mgl64.Vec3{
		m.Col(0).Vec3().Len(),
		m.Col(1).Vec3().Len(),
		m.Col(2).Vec3().Len(),
	}
}

// Rotation returns the rotation part of m: basis columns normalized, no
// translation. Zero-length columns are left as they are.
func Rotation(m mgl64.Mat4) mgl64.Mat4 {
	out := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		col := m.Col(i).Vec3()
		if n, ok := normalize(col); ok {
			col = n
		}
		out.SetCol(i, col.Vec4(0))
	}
	return out
}

// WithScale returns m with its rotation kept and basis columns rescaled to s.
func WithScale(m mgl64.Mat4, s mgl64.Vec3) mgl64.Mat4 {
	r := Rotation(m)
	for i := 0; i < 3; i++ {
		r.SetCol(i, r.Col(i).Vec3().Mul(s[i]).Vec4(0))
	}
	return WithTranslation(r, Translation(m))
}

// ComposeRotationTranslation combines the rotation of rot with the
// translation of trans. Scale in either input is dropped.
func ComposeRotationTranslation(rot, trans mgl64.Mat4) mgl64.Mat4 {
	return WithTranslation(Rotation(rot), Translation(trans))
}

// EulerXYZ builds a rotation applying X, then Y, then Z. Angles are radians.
func EulerXYZ(x, y, z float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(z).Mul4(mgl64.HomogRotate3DY(y)).Mul4(mgl64.HomogRotate3DX(x))
}

// AimMatrix builds an orientation at start with +X aimed at end and -Y
// toward the component of pole perpendicular to the aim. Twist is applied as
// a rotation about the aim axis before the aim.
func AimMatrix(start, end, pole mgl64.Vec3, twist float64) (mgl64.Mat4, error) {
	forward, ok := normalize(end.Sub(start))
	if !ok {
		return mgl64.Mat4{}, degenerate("aim vector has zero length")
	}

	up, ok := normalize(pole.Sub(forward.Mul(pole.Dot(forward))))
	if !ok {
		return mgl64.Mat4{}, degenerate("pole vector is parallel to the aim")
	}

	y := up.Mul(upAxisSign)
	z := forward.Cross(y)

	m := mgl64.Mat4FromCols(forward.Vec4(0), y.Vec4(0), z.Vec4(0), start.Vec4(1))
	if twist != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(twist))
	}
	return m, nil
}

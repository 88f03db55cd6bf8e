package wicket

import "github.com/go-gl/mathgl/mgl32"

// Frustum holds the six clip planes of a view-projection with normals
// pointing inward: left, right, bottom, top, near, far.
type Frustum [6]mgl32.Vec4

// FrustumFromMatrix extracts the planes of viewProj (projection times
// view) by row combination, normalized so plane evaluation yields world
// distance.
func FrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	r0 := viewProj.Row(0)
	r1 := viewProj.Row(1)
	r2 := viewProj.Row(2)
	r3 := viewProj.Row(3)
	f := Frustum{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r3.Add(r2), // near
		r3.Sub(r2), // far
	}
	for i, p := range f {
		if l := p.Vec3().Len(); l > 0 {
			f[i] = p.Mul(1 / l)
		}
	}
	return f
}

// ContainsPoint reports whether p lies inside or on every plane.
func (f Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for _, pl := range f {
		if pl.Vec3().Dot(p)+pl.W() < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere touches the frustum.
func (f Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, pl := range f {
		if pl.Vec3().Dot(center)+pl.W() < -radius {
			return false
		}
	}
	return true
}

// CullsQuad reports whether all four corners sit outside a single plane.
// Conservative: true only when the quad certainly cannot be visible, so a
// false result never skips anything that should have been drawn.
func (f Frustum) CullsQuad(corners [4]mgl32.Vec3) bool {
	for _, pl := range f {
		n, d := pl.Vec3(), pl.W()
		out := 0
		for _, c := range corners {
			if n.Dot(c)+d < 0 {
				out++
			}
		}
		if out == 4 {
			return true
		}
	}
	return false
}

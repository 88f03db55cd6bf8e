package wicket

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// rot180 spins a pose half a turn about its local up axis. Linked portals
// conceptually face each other (front of A looks at front of B), so every
// through-portal mapping inserts this between the target pose and the
// inverted source pose.
var rot180 = mgl32.HomogRotate3DY(math.Pi)

// PortalMap returns the transform carrying world geometry on the source
// portal's side to the corresponding place on the target portal's side:
// target * rotate180 * inverse(source). The virtual camera, the teleport
// mapping, and clone placement are all built from this one matrix.
func PortalMap(source, target mgl32.Mat4) mgl32.Mat4 {
	return target.Mul4(rot180).Mul4(source.Inv())
}

// VirtualView returns the view transform from which the scene beyond the
// target portal must be rendered to look continuous through the source
// portal: the camera's world pose (inverse of playerView) is mapped through
// PortalMap and inverted back into a view transform.
func VirtualView(playerView, source, target mgl32.Mat4) mgl32.Mat4 {
	cam := playerView.Inv()
	return PortalMap(source, target).Mul4(cam).Inv()
}

// PortalPlane returns the portal surface as plane coefficients (A,B,C,D)
// with Ax+By+Cz+D = 0. The normal is the negated front axis, so evaluating
// the plane at a point equals SignedDistance for that point.
func PortalPlane(pose mgl32.Mat4) mgl32.Vec4 {
	fwd := pose.Col(2).Vec3().Normalize()
	pos := pose.Col(3).Vec3()
	n := fwd.Mul(-1)
	return n.Vec4(-n.Dot(pos))
}

// PlaneToSpace re-expresses plane coefficients in the space that the given
// point transform maps into, via the inverse-transpose rule. Passing a view
// transform converts a world-space plane to view space.
func PlaneToSpace(plane mgl32.Vec4, to mgl32.Mat4) mgl32.Vec4 {
	return to.Inv().Transpose().Mul4x1(plane)
}

// ObliqueProjection returns proj with its third row rewritten so the near
// clip plane coincides exactly with the given view-space plane (Lengyel's
// method). The plane normal must face away from the camera (negative Z)
// with the camera strictly on the negative side; the renderer enforces
// that, flipping and skipping degenerate planes before calling in.
func ObliqueProjection(proj mgl32.Mat4, plane mgl32.Vec4) mgl32.Mat4 {
	q := mgl32.Vec4{
		(sign(plane.X()) + proj.At(0, 2)) / proj.At(0, 0),
		(sign(plane.Y()) + proj.At(1, 2)) / proj.At(1, 1),
		-1,
		(1 + proj.At(2, 2)) / proj.At(2, 3),
	}
	c := plane.Mul(2 / plane.Dot(q))
	out := proj
	out.SetRow(2, c.Sub(proj.Row(3)))
	return out
}

// ThroughPortalPoint maps a world position through a portal pair (w = 1).
func ThroughPortalPoint(p mgl32.Vec3, source, target mgl32.Mat4) mgl32.Vec3 {
	return PortalMap(source, target).Mul4x1(p.Vec4(1)).Vec3()
}

// ThroughPortalDirection maps a direction through a portal pair (w = 0) and
// renormalizes. The zero vector passes through unchanged.
func ThroughPortalDirection(d mgl32.Vec3, source, target mgl32.Mat4) mgl32.Vec3 {
	out := PortalMap(source, target).Mul4x1(d.Vec4(0)).Vec3()
	if l := out.Len(); l > 0 {
		return out.Mul(1 / l)
	}
	return d
}

// ThroughPortalPose maps a full pose through a portal pair.
func ThroughPortalPose(pose, source, target mgl32.Mat4) mgl32.Mat4 {
	return PortalMap(source, target).Mul4(pose)
}

// SignedDistance is the distance from p to the portal's plane. Negative on
// the portal's front (+Z) side, positive behind; a crossing flips the sign.
func SignedDistance(p mgl32.Vec3, pose mgl32.Mat4) float32 {
	fwd := pose.Col(2).Vec3().Normalize()
	pos := pose.Col(3).Vec3()
	return p.Sub(pos).Dot(fwd.Mul(-1))
}

// YawPitchFromForward recovers look angles from a forward direction: yaw
// about +Y with zero facing -Z, pitch positive looking up. Inverse of
// FlyCamera's forward construction; keeps mouse-look continuous after a
// teleport rotates the camera.
func YawPitchFromForward(f mgl32.Vec3) (yaw, pitch float32) {
	f = f.Normalize()
	yaw = float32(math.Atan2(float64(f.X()), float64(-f.Z())))
	pitch = float32(math.Asin(float64(mgl32.Clamp(f.Y(), -1, 1))))
	return yaw, pitch
}

// ViewpointFromView recovers the camera's world position and forward axis
// from a view transform and bundles them with the matrices for rendering.
func ViewpointFromView(view, proj mgl32.Mat4) Viewpoint {
	cam := view.Inv()
	return Viewpoint{
		View:       view,
		Projection: proj,
		Position:   cam.Col(3).Vec3(),
		Forward:    cam.Col(2).Vec3().Mul(-1).Normalize(),
	}
}

// perspectiveParams recovers the vertical field of view and aspect ratio
// from a symmetric perspective projection. Used when a degenerate clip
// plane forces a branch to rebuild a plain projection.
func perspectiveParams(proj mgl32.Mat4) (fovy, aspect float32) {
	fovy = 2 * float32(math.Atan(1/float64(proj.At(1, 1))))
	aspect = proj.At(1, 1) / proj.At(0, 0)
	return fovy, aspect
}

func sign(v float32) float32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

package wicket

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Traveler is a movable body that can pass through portals. The owning
// simulation samples PreviousPosition from Position once per tick before
// moving it; the Teleporter reads both samples to detect a plane crossing
// and rewrites the whole record when one lands inside an aperture.
//
// A zero-value Traveler works but cannot teleport until the clock passes
// the cooldown; NewTraveler avoids that.
type Traveler struct {
	Position         mgl32.Vec3
	PreviousPosition mgl32.Vec3
	Velocity         mgl32.Vec3
	Pose             mgl32.Mat4
	LastTeleportTime float64
}

// NewTraveler returns a traveler at the given position with an identity
// orientation and no teleport history.
func NewTraveler(pos mgl32.Vec3) Traveler {
	return Traveler{
		Position:         pos,
		PreviousPosition: pos,
		Pose:             mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()),
		LastTeleportTime: math.Inf(-1),
	}
}

// Teleporter decides when travelers cross portal planes and performs the
// pose transplant. Cooldown is in seconds; zero means DefaultCooldown.
type Teleporter struct {
	Registry *Registry
	Cooldown float64
}

func (tp *Teleporter) cooldown() float64 {
	if tp.Cooldown > 0 {
		return tp.Cooldown
	}
	return DefaultCooldown
}

// ShouldTeleport reports whether the traveler crossed through the portal's
// aperture between its previous and current position samples, stamping
// LastTeleportTime when it did. now is the simulation clock in seconds.
//
// A crossing requires, in order: the cooldown to have lapsed, the portal
// to be active with a live link, the plane's signed distance to change
// sign between the two samples (either direction counts), and the
// interpolated crossing point to land within the aperture half-extents.
func (tp *Teleporter) ShouldTeleport(t *Traveler, portal Handle, now float64) bool {
	if now-t.LastTeleportTime < tp.cooldown() {
		return false
	}
	p := tp.Registry.Get(portal)
	if p == nil || !p.Active || tp.Registry.Get(p.Linked) == nil {
		return false
	}
	prev := SignedDistance(t.PreviousPosition, p.Pose)
	curr := SignedDistance(t.Position, p.Pose)
	if !((prev > 0 && curr <= 0) || (prev < 0 && curr >= 0)) {
		return false
	}
	// Where between the two samples the plane was met.
	ti := prev / (prev - curr)
	cross := t.PreviousPosition.Add(t.Position.Sub(t.PreviousPosition).Mul(ti))
	local := p.LocalPoint(cross)
	if mgl32.Abs(local.X()) > p.Width || mgl32.Abs(local.Y()) > p.Height {
		return false
	}
	t.LastTeleportTime = now
	return true
}

// Teleport rewrites the traveler's position, previous position, velocity,
// and pose through the source portal into the target's space. Both
// position samples move so the next tick's crossing test cannot re-trigger
// against a stale pre-teleport sample; velocity keeps its magnitude with a
// remapped direction. Unresolvable handles leave the traveler untouched.
func (tp *Teleporter) Teleport(t *Traveler, source, target Handle) {
	src, dst := tp.Registry.Get(source), tp.Registry.Get(target)
	if src == nil || dst == nil {
		return
	}
	t.Position = ThroughPortalPoint(t.Position, src.Pose, dst.Pose)
	t.PreviousPosition = ThroughPortalPoint(t.PreviousPosition, src.Pose, dst.Pose)
	if speed := t.Velocity.Len(); speed > 0 {
		dir := ThroughPortalDirection(t.Velocity.Mul(1/speed), src.Pose, dst.Pose)
		t.Velocity = dir.Mul(speed)
	}
	t.Pose = ThroughPortalPose(t.Pose, src.Pose, dst.Pose)
}

// Step runs the whole per-tick decision for one traveler: it scans the
// registry in handle order, teleports through the first accepting portal,
// and reports the pair used. At most one teleport happens per call. The
// caller is responsible for having sampled PreviousPosition before moving
// the traveler this tick.
func (tp *Teleporter) Step(t *Traveler, now float64) (source, target Handle, ok bool) {
	tp.Registry.Each(func(h Handle, p *Portal) bool {
		if tp.ShouldTeleport(t, h, now) {
			source, target, ok = h, p.Linked, true
			tp.Teleport(t, source, target)
			return false
		}
		return true
	})
	return source, target, ok
}

// CloneTransform returns the pose a duplicate of the traveler takes on the
// far side of the source portal, for drawing both halves of a body that
// straddles the plane. Read-only; unresolvable handles return the pose
// unchanged.
func (tp *Teleporter) CloneTransform(t *Traveler, source, target Handle) mgl32.Mat4 {
	src, dst := tp.Registry.Get(source), tp.Registry.Get(target)
	if src == nil || dst == nil {
		return t.Pose
	}
	return ThroughPortalPose(t.Pose, src.Pose, dst.Pose)
}

// ShouldRenderClone reports whether the traveler sits within maxDist of
// the portal's plane, close enough that its far-side clone is worth
// drawing. Read-only.
func (tp *Teleporter) ShouldRenderClone(t *Traveler, portal Handle, maxDist float32) bool {
	p := tp.Registry.Get(portal)
	if p == nil || !p.Active || tp.Registry.Get(p.Linked) == nil {
		return false
	}
	return mgl32.Abs(SignedDistance(t.Position, p.Pose)) <= maxDist
}

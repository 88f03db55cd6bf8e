package wicket

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Portal is a rectangular aperture in the world. Pose places it
// (orthonormal rotation plus translation, right-handed, local +Z out the
// front). Width and Height are half-extents of the aperture rectangle in
// the local XY plane at Z=0; they bound both what is visible through the
// portal region and where a crossing counts. A portal renders and
// teleports only while Active and linked to a live portal.
//
// Links are usually symmetric (Registry.Link), but one-way portals are a
// valid configuration: nothing assumes the target links back.
type Portal struct {
	Pose   mgl32.Mat4
	Width  float32
	Height float32
	Linked Handle
	Active bool
}

// NewPortal returns an active, unlinked portal at the given pose.
func NewPortal(pose mgl32.Mat4, width, height float32) Portal {
	return Portal{Pose: pose, Width: width, Height: height, Linked: None, Active: true}
}

// Position returns the translation column of the pose.
func (p *Portal) Position() mgl32.Vec3 { return p.Pose.Col(3).Vec3() }

// Normal returns the portal's front axis: the normalized local +Z basis
// column in world space.
func (p *Portal) Normal() mgl32.Vec3 { return p.Pose.Col(2).Vec3().Normalize() }

// Up returns the normalized local +Y basis column in world space.
func (p *Portal) Up() mgl32.Vec3 { return p.Pose.Col(1).Vec3().Normalize() }

// Right returns the normalized local +X basis column in world space.
func (p *Portal) Right() mgl32.Vec3 { return p.Pose.Col(0).Vec3().Normalize() }

// Plane returns the portal surface as plane coefficients, per PortalPlane.
func (p *Portal) Plane() mgl32.Vec4 { return PortalPlane(p.Pose) }

// LocalPoint maps a world point into the portal's local frame.
func (p *Portal) LocalPoint(world mgl32.Vec3) mgl32.Vec3 {
	return p.Pose.Inv().Mul4x1(world.Vec4(1)).Vec3()
}

// Corners returns the aperture's four world-space corners, counterclockwise
// as seen from the front.
func (p *Portal) Corners() [4]mgl32.Vec3 {
	local := [4]mgl32.Vec3{
		{-p.Width, -p.Height, 0},
		{p.Width, -p.Height, 0},
		{p.Width, p.Height, 0},
		{-p.Width, p.Height, 0},
	}
	var out [4]mgl32.Vec3
	for i, l := range local {
		out[i] = p.Pose.Mul4x1(l.Vec4(1)).Vec3()
	}
	return out
}

type slot struct {
	portal Portal
	live   bool
}

// Registry is the arena all portals live in. Portals are addressed by
// Handle rather than pointer so that destroying one can never leave a
// dangling reference behind: Destroy clears inbound links and later Gets
// on the stale handle return nil.
//
// Not safe for concurrent use; crossing detection and rendering run on one
// thread per frame.
type Registry struct {
	slots []slot
	free  []Handle
}

// NewRegistry returns an empty portal registry.
func NewRegistry() *Registry { return &Registry{} }

// Add stores a portal and returns its handle. Freed slots are reused.
func (r *Registry) Add(p Portal) Handle {
	if n := len(r.free); n > 0 {
		h := r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[h-1] = slot{portal: p, live: true}
		return h
	}
	r.slots = append(r.slots, slot{portal: p, live: true})
	return Handle(len(r.slots))
}

// Get resolves a handle. Returns nil for None, destroyed portals, and
// out-of-range handles, so any unresolvable link reads as "no portal".
func (r *Registry) Get(h Handle) *Portal {
	if h <= 0 || int(h) > len(r.slots) {
		return nil
	}
	s := &r.slots[h-1]
	if !s.live {
		return nil
	}
	return &s.portal
}

// Link joins two portals both ways. Linking a portal to itself is allowed;
// it renders as a half-turn view of the portal's own surroundings.
func (r *Registry) Link(a, b Handle) error {
	pa, pb := r.Get(a), r.Get(b)
	if pa == nil {
		return fmt.Errorf("link: no portal %d", a)
	}
	if pb == nil {
		return fmt.Errorf("link: no portal %d", b)
	}
	pa.Linked = b
	pb.Linked = a
	return nil
}

// SetLink points one portal at another without the reverse link, or at
// None to unlink it. One-way portals are valid; Link makes the usual
// symmetric pair.
func (r *Registry) SetLink(from, to Handle) error {
	p := r.Get(from)
	if p == nil {
		return fmt.Errorf("link: no portal %d", from)
	}
	if to != None && r.Get(to) == nil {
		return fmt.Errorf("link: no portal %d", to)
	}
	p.Linked = to
	return nil
}

// Destroy frees a portal's slot and clears every link pointing at it. The
// handle may be reissued by a later Add. Destroying an unknown handle is a
// no-op.
func (r *Registry) Destroy(h Handle) {
	if r.Get(h) == nil {
		return
	}
	r.slots[h-1] = slot{}
	r.free = append(r.free, h)
	for i := range r.slots {
		if r.slots[i].live && r.slots[i].portal.Linked == h {
			r.slots[i].portal.Linked = None
			Logger().Debug("portal unlinked", "portal", i+1, "destroyed", int(h))
		}
	}
}

// Len reports how many live portals the registry holds.
func (r *Registry) Len() int {
	n := 0
	for i := range r.slots {
		if r.slots[i].live {
			n++
		}
	}
	return n
}

// Each calls fn for every live portal in handle order, stopping early if
// fn returns false.
func (r *Registry) Each(fn func(Handle, *Portal) bool) {
	for i := range r.slots {
		if !r.slots[i].live {
			continue
		}
		if !fn(Handle(i+1), &r.slots[i].portal) {
			return
		}
	}
}

package wicket

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Traversal thresholds. The clip plane is pushed back a hair so the
// destination surface cannot clip itself; a nearly edge-on plane gets a
// rebuilt plain projection instead of an oblique one; a camera almost
// touching the destination portal draws nothing for the frame.
const (
	clipBias        = 0.01
	edgeOnThreshold = 0.05
	minPortalDist   = 0.1

	// cullBehind lets a portal center sit up to one unit behind the
	// camera plane before its branch is dropped: a straddling aperture
	// can still be visible.
	cullBehind = -1.0
)

// Renderer draws scene content from a given viewpoint. The Compositor
// calls Draw once per recursion branch actually taken; implementations
// must leave portal and traveler state untouched.
type Renderer interface {
	Draw(view, projection mgl32.Mat4)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(view, projection mgl32.Mat4)

// Draw calls f.
func (f RendererFunc) Draw(view, projection mgl32.Mat4) { f(view, projection) }

// FrameRenderer draws a portal's decorative frame geometry.
type FrameRenderer interface {
	DrawFrame(p *Portal, view, projection mgl32.Mat4)
}

// FrameRendererFunc adapts a plain function to the FrameRenderer
// interface.
type FrameRendererFunc func(p *Portal, view, projection mgl32.Mat4)

// DrawFrame calls f.
func (f FrameRendererFunc) DrawFrame(p *Portal, view, projection mgl32.Mat4) { f(p, view, projection) }

// Compositor renders every visible portal in a Registry into a Device
// with a bounded-depth recursive traversal, calling the Scene and
// Background renderers for content at each branch taken.
//
// Each branch marks its aperture in the mask buffer with a reference
// value unique among its siblings, clears depth inside that region, draws
// the far side from a virtual camera under an oblique near-clip
// projection, recurses, and finally seals the aperture's depth back into
// the parent view. Scene, Background and Frames may each be nil; that
// part simply draws nothing.
type Compositor struct {
	Registry   *Registry
	Device     Device
	Scene      Renderer
	Background Renderer
	Frames     FrameRenderer

	// MaxRecursion bounds portal-in-portal nesting. Zero means
	// DefaultMaxRecursion. Content past the limit is omitted for the
	// frame; the mask region keeps whatever was last drawn there.
	MaxRecursion int
	// CullDistance bounds how far away a portal may sit before its
	// branch is skipped. Zero means DefaultCullDistance.
	CullDistance float32
	// NoFrustumCull disables the conservative aperture-vs-frustum
	// rejection layered on the cheap behind/distance tests.
	NoFrustumCull bool

	debug bool
	stats Stats
	state RenderState
}

// branch carries the per-recursion-branch context: everything one nested
// view needs. Rebuilt fresh every traversal, never persisted.
type branch struct {
	view     mgl32.Mat4
	proj     mgl32.Mat4
	pos      mgl32.Vec3
	forward  mgl32.Vec3
	level    int
	ref      uint8
	excluded [2]Handle
}

// RenderPortals composites every visible portal into the device for this
// frame. Call it after the main scene and background have been drawn:
// aperture marking depth-tests against the scene, so portals hidden
// behind geometry never open. After the traversal a final pass draws
// portal frames into the outermost region only, and the device is left in
// DefaultState with whatever mask values the traversal produced.
func (c *Compositor) RenderPortals(vp Viewpoint) {
	c.stats = Stats{}
	if c.Registry == nil || c.Device == nil {
		return
	}
	if c.debug {
		debugCheckMaskBudget(c.Registry.Len(), c.maxRecursion())
	}
	c.state = DefaultState()
	c.Device.Apply(c.state)
	c.Device.ClearMask(0)

	c.renderLevel(branch{
		view:    vp.View,
		proj:    vp.Projection,
		pos:     vp.Position,
		forward: vp.Forward,
	})

	c.drawFrames(vp)
	c.apply(DefaultState())
	if c.debug {
		c.logFrame()
	}
}

// Stats returns the metrics gathered by the most recent RenderPortals
// call.
func (c *Compositor) Stats() Stats { return c.stats }

// renderLevel walks every eligible portal at one recursion level. Sibling
// branches get consecutive mask references b.ref+1, b.ref+2, ... in the
// order they are rendered, so sibling regions can never alias.
func (c *Compositor) renderLevel(b branch) {
	if b.level >= c.maxRecursion() {
		return
	}
	var fr *Frustum
	if !c.NoFrustumCull {
		f := FrustumFromMatrix(b.proj.Mul4(b.view))
		fr = &f
	}
	slot := 0
	c.Registry.Each(func(h Handle, p *Portal) bool {
		if h == b.excluded[0] || h == b.excluded[1] {
			return true
		}
		if !p.Active {
			return true
		}
		linked := c.Registry.Get(p.Linked)
		if linked == nil {
			return true
		}
		if c.culled(p, b, fr) {
			c.stats.Culled++
			return true
		}
		ref := int(b.ref) + slot + 1
		if ref > maskBudget {
			c.stats.SkippedBudget++
			Logger().Debug("mask budget exhausted", "portal", int(h), "level", b.level)
			return true
		}
		slot++
		c.renderBranch(b, h, p, p.Linked, linked, uint8(ref))
		return true
	})
}

// culled is the cheap conservative visibility test: a skipped portal only
// loses optional recursion, it can never corrupt the frame.
func (c *Compositor) culled(p *Portal, b branch, fr *Frustum) bool {
	to := p.Position().Sub(b.pos)
	if to.Dot(b.forward) < cullBehind {
		return true
	}
	if to.Len() > c.cullDistance() {
		return true
	}
	if fr != nil && fr.CullsQuad(p.Corners()) {
		return true
	}
	return false
}

// renderBranch runs the full pass sequence for one portal at one level:
// mark, virtual camera, depth clear, content, recursion, depth seal. The
// enclosing pipeline state is restored on every exit path so sibling
// branches always start from the same state.
func (c *Compositor) renderBranch(parent branch, h Handle, p *Portal, linkedH Handle, linked *Portal, ref uint8) {
	saved := c.state
	defer c.apply(saved)

	c.stats.Branches++
	if parent.level+1 > c.stats.MaxDepth {
		c.stats.MaxDepth = parent.level + 1
	}

	// Portals are double-sided: seen from behind, the effective source
	// pose is spun half a turn so the through-portal mapping stays
	// consistent with what the viewer faces.
	srcPose := p.Pose
	if parent.pos.Sub(p.Position()).Dot(p.Normal()) < 0 {
		srcPose = srcPose.Mul4(rot180)
	}

	// Mark the aperture's pixels with this branch's reference, confined
	// to the parent's region and to where the quad survives the depth
	// test, without touching color or depth.
	mark := RenderState{
		MaskFunc:   CompareEqual,
		MaskRef:    parent.ref,
		MaskBits:   0xFF,
		MaskOp:     MaskReplace,
		MaskWrite:  ref,
		ColorWrite: false,
		DepthWrite: false,
		DepthFunc:  CompareLess,
		DepthNear:  0,
		DepthFar:   1,
	}
	if parent.level == 0 {
		// Top level: claim any pixel the quad wins on depth. Sibling
		// overlap resolves per pixel because each branch seals its
		// aperture depth before the next one marks.
		mark.MaskFunc = CompareAlways
	}
	c.apply(mark)
	c.Device.DrawAperture(p, parent.view, parent.proj)
	c.stats.ApertureDraws++

	virtualView := VirtualView(parent.view, srcPose, linked.Pose)
	vvp := ViewpointFromView(virtualView, parent.proj)

	// Destination portal's surface as the near-clip plane, in the
	// virtual camera's space, normal facing away from the camera.
	plane := PlaneToSpace(PortalPlane(linked.Pose), virtualView)
	if plane.Z() > 0 {
		plane = plane.Mul(-1)
	}

	// Plane behind or through the virtual camera: no valid projection
	// exists this frame. The marked region stays as the main view drew
	// it, which beats rendering garbage for one frame.
	if plane.W() >= -clipBias {
		c.stats.SkippedDegenerate++
		Logger().Debug("branch skipped: clip plane behind camera",
			"portal", int(h), "level", parent.level, "offset", plane.W())
		return
	}

	var virtualProj mgl32.Mat4
	if mgl32.Abs(plane.Z()) < edgeOnThreshold {
		// Nearly edge-on: the oblique rewrite is numerically unusable,
		// so fall back to a plain projection whose near plane hugs the
		// destination portal.
		dist := -virtualView.Mul4x1(linked.Position().Vec4(1)).Z()
		if dist < minPortalDist {
			c.stats.SkippedDegenerate++
			Logger().Debug("branch skipped: camera on portal plane",
				"portal", int(h), "level", parent.level, "dist", dist)
			return
		}
		fovy, aspect := perspectiveParams(parent.proj)
		virtualProj = mgl32.Perspective(fovy, aspect, max(0.01, dist*0.9), c.cullDistance())
	} else {
		biased := mgl32.Vec4{plane.X(), plane.Y(), plane.Z(), plane.W() - clipBias}
		virtualProj = ObliqueProjection(parent.proj, biased)
	}

	// Open the region: force its depth to the far plane so nothing the
	// parent view drew there can occlude the virtual content.
	clear := RenderState{
		MaskFunc:   CompareEqual,
		MaskRef:    ref,
		MaskBits:   0xFF,
		MaskOp:     MaskKeep,
		ColorWrite: false,
		DepthWrite: true,
		DepthFunc:  CompareAlways,
		DepthNear:  1,
		DepthFar:   1,
	}
	c.apply(clear)
	c.Device.DrawAperture(p, parent.view, parent.proj)
	c.stats.ApertureDraws++

	// Content: background, then scene, then the frames of unrelated
	// portals, all from the virtual viewpoint, confined to the region.
	content := RenderState{
		MaskFunc:   CompareEqual,
		MaskRef:    ref,
		MaskBits:   0xFF,
		MaskOp:     MaskKeep,
		ColorWrite: true,
		DepthWrite: true,
		DepthFunc:  CompareLess,
		DepthNear:  0,
		DepthFar:   1,
	}
	c.apply(content)
	if c.Background != nil {
		c.Background.Draw(virtualView, virtualProj)
	}
	if c.Scene != nil {
		c.Scene.Draw(virtualView, virtualProj)
		c.stats.SceneDraws++
	}
	if c.Frames != nil {
		c.Registry.Each(func(h2 Handle, p2 *Portal) bool {
			if h2 != h && h2 != linkedH && p2.Active {
				c.Frames.DrawFrame(p2, virtualView, virtualProj)
			}
			return true
		})
	}

	// Deeper portals seen through this one. The branch's own pair is
	// excluded one level down: the virtual camera just came out of the
	// linked portal, and re-rendering the pair there would draw it from
	// a camera sitting on its exit mouth.
	c.renderLevel(branch{
		view:     virtualView,
		proj:     virtualProj,
		pos:      vvp.Position,
		forward:  vvp.Forward,
		level:    parent.level + 1,
		ref:      ref,
		excluded: [2]Handle{h, linkedH},
	})

	// Seal: write the aperture's depth in the parent view so portals and
	// geometry drawn after this branch occlude against the portal
	// surface, not against the virtual content behind it.
	seal := RenderState{
		MaskFunc:   CompareEqual,
		MaskRef:    ref,
		MaskBits:   0xFF,
		MaskOp:     MaskKeep,
		ColorWrite: false,
		DepthWrite: true,
		DepthFunc:  CompareAlways,
		DepthNear:  0,
		DepthFar:   1,
	}
	c.apply(seal)
	c.Device.DrawAperture(p, parent.view, parent.proj)
	c.stats.ApertureDraws++
}

// drawFrames draws every active portal's decorative frame into the
// outermost region only: pixels still holding mask reference 0. Nested
// portal content is never painted over.
func (c *Compositor) drawFrames(vp Viewpoint) {
	if c.Frames == nil {
		return
	}
	c.apply(RenderState{
		MaskFunc:   CompareEqual,
		MaskRef:    0,
		MaskBits:   0xFF,
		MaskOp:     MaskKeep,
		ColorWrite: true,
		DepthWrite: true,
		DepthFunc:  CompareLess,
		DepthNear:  0,
		DepthFar:   1,
	})
	c.Registry.Each(func(_ Handle, p *Portal) bool {
		if p.Active {
			c.Frames.DrawFrame(p, vp.View, vp.Projection)
		}
		return true
	})
}

// apply pushes s to the device, skipping no-op transitions.
func (c *Compositor) apply(s RenderState) {
	if s == c.state {
		return
	}
	c.state = s
	c.Device.Apply(s)
}

func (c *Compositor) maxRecursion() int {
	if c.MaxRecursion > 0 {
		return c.MaxRecursion
	}
	return DefaultMaxRecursion
}

func (c *Compositor) cullDistance() float32 {
	if c.CullDistance > 0 {
		return c.CullDistance
	}
	return DefaultCullDistance
}

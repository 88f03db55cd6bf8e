package wicket

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Handle addresses a portal inside a Registry. Live handles start at 1 and
// stay valid until the portal is destroyed; a destroyed portal's handle
// resolves to nil and any links pointing at it are cleared, so stale
// handles never dangle.
type Handle int32

// None is the zero Handle: a portal linked to None is inert.
const None Handle = 0

// Defaults for the tunable knobs. A zero-valued Compositor or Teleporter
// field falls back to the matching default.
const (
	// DefaultMaxRecursion bounds how deep portal-in-portal content nests.
	// Content beyond the limit is omitted for the frame.
	DefaultMaxRecursion = 4

	// DefaultCooldown is the minimum time in seconds between two teleports
	// of the same traveler. Prevents oscillation when standing astride a
	// portal plane.
	DefaultCooldown = 0.3

	// DefaultCullDistance is how far away a portal may be before its
	// recursion branch is skipped, and the far plane used when a branch
	// needs a rebuilt projection.
	DefaultCullDistance = 100
)

// maskBudget is the largest mask reference value an 8-bit buffer can hold.
// Branches that would allocate past it are skipped for the frame.
const maskBudget = 255

// Viewpoint bundles the camera inputs one RenderPortals call consumes.
// Position and Forward must agree with View; build one with
// ViewpointFromView when only the matrices are at hand.
type Viewpoint struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Position   mgl32.Vec3
	Forward    mgl32.Vec3
}

// Stats holds per-frame traversal metrics. Reset at the start of every
// RenderPortals call; read them back with Compositor.Stats.
type Stats struct {
	// Branches counts portal branches that reached the mask-mark step.
	Branches int
	// Culled counts portals rejected by the cheap visibility test.
	Culled int
	// SkippedDegenerate counts branches abandoned because their clip
	// plane was unusable (edge-on too close, or behind the camera).
	SkippedDegenerate int
	// SkippedBudget counts branches abandoned because the mask buffer
	// ran out of distinct reference values.
	SkippedBudget int
	// MaxDepth is the deepest nesting rendered: 1 when only directly
	// visible portals drew, 2 when a portal was seen through a portal,
	// and so on.
	MaxDepth int
	// ApertureDraws counts portal quads rasterized across all passes.
	ApertureDraws int
	// SceneDraws counts scene-renderer invocations.
	SceneDraws int
}

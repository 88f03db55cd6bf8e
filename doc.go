// Package wicket is a recursive portal rendering core for 3D scenes.
//
// Wicket provides the transform math, crossing detection, and bounded-depth
// recursive traversal needed to render "portals": rectangular apertures that
// show a live, perspective-correct view of the space around a linked
// counterpart, nested up to a fixed recursion depth, and that relocate
// objects crossing their plane to the linked location with matching
// orientation and velocity.
//
// # Quick start
//
// Portals live in a [Registry] and are addressed by [Handle]:
//
//	reg := wicket.NewRegistry()
//	blue := reg.Add(wicket.Portal{
//		Pose:  mgl32.Translate3D(0, 1.5, -5),
//		Width: 1, Height: 2, Active: true,
//	})
//	orange := reg.Add(wicket.Portal{
//		Pose:  mgl32.Translate3D(0, 1.5, 20).Mul4(mgl32.HomogRotate3DY(math.Pi)),
//		Width: 1, Height: 2, Active: true,
//	})
//	reg.Link(blue, orange)
//
// A [Compositor] renders every visible portal into a [Device] (any mask/depth
// buffer implementation; [Raster] is the built-in software one), calling your
// [Renderer] for scene content at each recursion branch:
//
//	comp := &wicket.Compositor{
//		Registry:   reg,
//		Device:     raster,
//		Scene:      sceneRenderer,
//		Background: skyRenderer,
//	}
//	comp.RenderPortals(wicket.ViewpointFromView(view, projection))
//
// Crossing detection and teleportation are handled by a [Teleporter]
// driving [Traveler] records once per simulation tick, before rendering:
//
//	if src, dst, ok := teleporter.Step(&player, now); ok {
//		// player.Position, Velocity and Pose are already remapped
//	}
//
// # Design
//
// The traversal confines each nested portal's content to its exact screen
// footprint with a per-pixel mask buffer: each branch marks its aperture
// with a reference value unique among siblings, clears depth inside that
// region, draws the linked side from a virtual camera with an oblique
// near-clip projection, recurses, and seals the aperture's depth in the
// parent view. All pipeline toggles travel through an explicit
// [RenderState] value that is restored around every step, so a completed
// frame always leaves the device exactly as it found it.
//
// Degenerate branches (near-edge-on clip plane, destination plane behind
// the virtual camera, unlinked portals) are skipped for the frame rather
// than reported as errors; a one-frame omission is invisible, a broken
// projection is not.
//
// Matrices are [mgl32] column-major, right-handed; a portal's local +Z is
// its front face.
//
// [mgl32]: https://github.com/go-gl/mathgl
package wicket

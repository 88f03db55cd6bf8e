package wicket

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxPitch keeps the look direction off the vertical axis so the view
// basis never degenerates.
const maxPitch = float32(math.Pi/2) - 0.01

// glideAnim holds active glide-to tweens for camera X, Y, and Z.
type glideAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	tweenZ *gween.Tween
	doneX  bool
	doneY  bool
	doneZ  bool
}

// FlyCamera is a free-look camera driven by yaw and pitch angles. It
// caches its view matrix and recomputes only after movement, and feeds
// [Compositor.RenderPortals] via [FlyCamera.Viewpoint].
type FlyCamera struct {
	// Position is the camera's world-space position.
	Position mgl32.Vec3
	// Yaw is the heading in radians; zero looks down -Z and positive
	// turns toward +X.
	Yaw float32
	// Pitch is the elevation in radians, clamped short of straight up
	// and down.
	Pitch float32

	view  mgl32.Mat4
	dirty bool

	glideTween *glideAnim
}

// NewFlyCamera creates a camera at the given position looking down -Z.
func NewFlyCamera(position mgl32.Vec3) *FlyCamera {
	return &FlyCamera{
		Position: position,
		dirty:    true,
	}
}

// Forward returns the unit look direction.
func (c *FlyCamera) Forward() mgl32.Vec3 {
	cp := cos(c.Pitch)
	return mgl32.Vec3{sin(c.Yaw) * cp, sin(c.Pitch), -cos(c.Yaw) * cp}
}

// Right returns the unit strafe axis.
func (c *FlyCamera) Right() mgl32.Vec3 {
	return c.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Look turns the camera by the given yaw and pitch deltas in radians,
// clamping pitch.
func (c *FlyCamera) Look(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.Pitch = mgl32.Clamp(c.Pitch+dpitch, -maxPitch, maxPitch)
	c.dirty = true
}

// Move translates the camera in its local frame: forward along the look
// direction, right along the strafe axis, and up along world Y.
func (c *FlyCamera) Move(forward, right, up float32) {
	p := c.Position
	p = p.Add(c.Forward().Mul(forward))
	p = p.Add(c.Right().Mul(right))
	p = p.Add(mgl32.Vec3{0, up, 0})
	c.Position = p
	c.dirty = true
}

// SetPose snaps the camera to a rigid pose, deriving yaw and pitch from
// the pose's forward axis. Used after a teleport carries the camera
// through a portal.
func (c *FlyCamera) SetPose(pose mgl32.Mat4) {
	c.Position = pose.Col(3).Vec3()
	fwd := mgl32.Vec3{-pose.At(0, 2), -pose.At(1, 2), -pose.At(2, 2)}
	c.Yaw, c.Pitch = YawPitchFromForward(fwd)
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
	c.dirty = true
}

// GlideTo animates the camera position to the given world position over
// duration seconds. Look angles are unaffected.
func (c *FlyCamera) GlideTo(target mgl32.Vec3, duration float32, easeFn ease.TweenFunc) {
	c.glideTween = &glideAnim{
		tweenX: gween.New(c.Position.X(), target.X(), duration, easeFn),
		tweenY: gween.New(c.Position.Y(), target.Y(), duration, easeFn),
		tweenZ: gween.New(c.Position.Z(), target.Z(), duration, easeFn),
	}
}

// Update advances any active glide animation. Call once per frame with
// the frame's delta time in seconds.
func (c *FlyCamera) Update(dt float32) {
	g := c.glideTween
	if g == nil {
		return
	}
	if !g.doneX {
		val, done := g.tweenX.Update(dt)
		c.Position[0] = val
		g.doneX = done
	}
	if !g.doneY {
		val, done := g.tweenY.Update(dt)
		c.Position[1] = val
		g.doneY = done
	}
	if !g.doneZ {
		val, done := g.tweenZ.Update(dt)
		c.Position[2] = val
		g.doneZ = done
	}
	if g.doneX && g.doneY && g.doneZ {
		c.glideTween = nil
	}
	c.dirty = true
}

// View returns the cached view matrix, recomputing it if the camera
// moved since the last call.
func (c *FlyCamera) View() mgl32.Mat4 {
	if c.dirty {
		c.view = mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
		c.dirty = false
	}
	return c.view
}

// Viewpoint bundles the camera's view with the given projection for
// [Compositor.RenderPortals].
func (c *FlyCamera) Viewpoint(proj mgl32.Mat4) Viewpoint {
	return Viewpoint{
		View:       c.View(),
		Projection: proj,
		Position:   c.Position,
		Forward:    c.Forward(),
	}
}

// MarkDirty forces a recomputation of the view matrix on the next View
// call.
func (c *FlyCamera) MarkDirty() {
	c.dirty = true
}

func sin(v float32) float32 { return float32(math.Sin(float64(v))) }
func cos(v float32) float32 { return float32(math.Cos(float64(v))) }

// rooms connects two differently lit rooms with a portal pair on facing
// walls. Walk through with WASD + mouse look; the portal frame pulses and
// the far portal rides a sliding platform.
package main

import (
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/wicket"
)

const (
	screenW = 960
	screenH = 540
	rasterW = 320
	rasterH = 180

	moveSpeed = 3.0   // units per second
	lookSpeed = 0.004 // radians per pixel
	eyeHeight = 1.7

	roomHalf   = 4.0
	roomHeight = 3.0
	roomBX     = 40.0 // second room center on x

	portalHalfW = 1.0
	portalHalfH = 1.2
	frameThick  = 0.12

	pulseSeconds = 0.9
	slideSeconds = 4.0
	slideReach   = 1.5

	droneHalf  = 0.22
	cloneReach = 2.5
)

var (
	warmWall    = [4]uint8{200, 128, 70, 255}
	warmFloor   = [4]uint8{222, 184, 135, 255}
	warmCeil    = [4]uint8{245, 222, 179, 255}
	coolWall    = [4]uint8{70, 130, 180, 255}
	coolFloor   = [4]uint8{96, 108, 120, 255}
	coolCeil    = [4]uint8{176, 196, 222, 255}
	platformTop = [4]uint8{60, 66, 80, 255}
	frameDim    = [4]uint8{84, 40, 120, 255}
	frameBright = [4]uint8{208, 128, 255, 255}
	droneGold   = [4]uint8{255, 215, 0, 255}
	voidColor   = [4]uint8{12, 10, 16, 255}
)

type wall struct {
	corners [4]mgl32.Vec3
	color   [4]uint8
}

// pingPong replays a tween back and forth forever, in the manner of a
// two-keyframe animation loop.
type pingPong struct {
	tw       *gween.Tween
	from, to float32
	dur      float32
	fn       ease.TweenFunc
	val      float32
}

func newPingPong(from, to, dur float32, fn ease.TweenFunc) *pingPong {
	return &pingPong{tw: gween.New(from, to, dur, fn), from: from, to: to, dur: dur, fn: fn, val: from}
}

func (p *pingPong) Update(dt float32) float32 {
	v, done := p.tw.Update(dt)
	p.val = v
	if done {
		p.from, p.to = p.to, p.from
		p.tw = gween.New(p.from, p.to, p.dur, p.fn)
	}
	return v
}

type game struct {
	reg    *wicket.Registry
	comp   *wicket.Compositor
	raster *wicket.Raster
	cam    *wicket.FlyCamera
	proj   mgl32.Mat4

	hA, hB wicket.Handle
	tp     wicket.Teleporter
	player wicket.Traveler
	drone  wicket.Traveler

	walls []wall
	pulse *pingPong
	slide *pingPong

	clock    float64
	mouseX   int
	mouseY   int
	hasMouse bool
}

func main() {
	wicket.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	r, err := wicket.NewRaster(rasterW, rasterH)
	if err != nil {
		log.Fatalf("raster: %v", err)
	}

	reg := wicket.NewRegistry()
	hA := reg.Add(wicket.NewPortal(
		mgl32.Translate3D(0, 1.5, -roomHalf+0.01), portalHalfW, portalHalfH))
	hB := reg.Add(wicket.NewPortal(
		mgl32.Translate3D(roomBX, 1.5, roomHalf-0.01).Mul4(mgl32.HomogRotate3DY(math.Pi)),
		portalHalfW, portalHalfH))
	if err := reg.Link(hA, hB); err != nil {
		log.Fatalf("link portals: %v", err)
	}

	g := &game{
		reg:    reg,
		raster: r,
		cam:    wicket.NewFlyCamera(mgl32.Vec3{0, eyeHeight, 2}),
		proj:   mgl32.Perspective(mgl32.DegToRad(75), float32(rasterW)/float32(rasterH), 0.1, 100),
		hA:     hA,
		hB:     hB,
		tp:     wicket.Teleporter{Registry: reg},
		player: wicket.NewTraveler(mgl32.Vec3{0, eyeHeight, 2}),
		drone:  wicket.NewTraveler(mgl32.Vec3{1, 1.5, -2.6}),
		pulse:  newPingPong(0, 1, pulseSeconds, ease.InOutQuad),
		slide:  newPingPong(-slideReach, slideReach, slideSeconds, ease.InOutQuad),
	}
	g.walls = buildRooms()
	g.comp = &wicket.Compositor{
		Registry: reg,
		Device:   r,
		Scene:    wicket.RendererFunc(g.drawWorld),
		Frames:   wicket.FrameRendererFunc(g.drawFrame),
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Wicket \u2014 Rooms")
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func (g *game) Update() error {
	const dt = 1.0 / 60
	g.clock += dt

	// Mouse look from cursor deltas.
	mx, my := ebiten.CursorPosition()
	if g.hasMouse {
		g.cam.Look(float32(mx-g.mouseX)*lookSpeed, float32(g.mouseY-my)*lookSpeed)
	}
	g.mouseX, g.mouseY, g.hasMouse = mx, my, true

	var fwd, right float32
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		fwd += moveSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		fwd -= moveSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		right += moveSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		right -= moveSpeed * dt
	}
	prev := g.cam.Position
	g.cam.Move(fwd, right, 0)

	// Crossing detection runs on the fresh position sample.
	g.player.PreviousPosition = prev
	g.player.Position = g.cam.Position
	g.player.Velocity = g.cam.Position.Sub(prev).Mul(1 / dt)
	g.player.Pose = g.cam.View().Inv()
	if src, dst, ok := g.tp.Step(&g.player, g.clock); ok {
		g.cam.SetPose(g.player.Pose)
		wicket.Logger().Info("walked through portal", "source", int(src), "target", int(dst))
	}

	// Portal B rides its platform along the far wall.
	x := g.slide.Update(dt)
	if pb := g.reg.Get(g.hB); pb != nil {
		pb.Pose = mgl32.Translate3D(roomBX+x, 1.5, roomHalf-0.01).
			Mul4(mgl32.HomogRotate3DY(math.Pi))
	}
	g.pulse.Update(dt)

	// The drone orbits in front of the first portal.
	angle := float32(g.clock * 0.8)
	pos := mgl32.Vec3{cosf(angle) * 1.0, 1.5, sinf(angle)*1.0 - 2.6}
	g.drone.PreviousPosition = g.drone.Position
	g.drone.Position = pos
	g.drone.Pose = mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(mgl32.HomogRotate3DY(angle))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	r := g.raster
	r.ClearColor(voidColor)
	r.ClearDepth()
	r.ClearMask(0)
	r.Apply(wicket.DefaultState())

	vp := g.cam.Viewpoint(g.proj)
	g.drawWorld(vp.View, vp.Projection)
	g.comp.RenderPortals(vp)

	screen.WritePixels(r.Pixels())
}

func (g *game) Layout(_, _ int) (int, int) { return rasterW, rasterH }

// drawWorld renders both rooms, the portal platform, and the drone with
// its through-portal clone. Called for the player view and again for
// every portal branch.
func (g *game) drawWorld(view, proj mgl32.Mat4) {
	for _, w := range g.walls {
		g.raster.DrawQuad(view, proj, w.corners, w.color)
	}

	// Platform pad under the sliding portal.
	x := roomBX + g.slide.val
	g.raster.DrawQuad(view, proj, [4]mgl32.Vec3{
		{x - portalHalfW - 0.4, 0.02, roomHalf - 1.2},
		{x + portalHalfW + 0.4, 0.02, roomHalf - 1.2},
		{x + portalHalfW + 0.4, 0.02, roomHalf - 0.01},
		{x - portalHalfW - 0.4, 0.02, roomHalf - 0.01},
	}, platformTop)

	g.drawQuadAt(g.drone.Pose, droneHalf, droneGold, view, proj)
	if g.tp.ShouldRenderClone(&g.drone, g.hA, cloneReach) {
		clone := g.tp.CloneTransform(&g.drone, g.hA, g.hB)
		g.drawQuadAt(clone, droneHalf, droneGold, view, proj)
	}
}

// drawFrame outlines one portal aperture with four pulsing strips.
func (g *game) drawFrame(p *wicket.Portal, view, proj mgl32.Mat4) {
	col := mix(frameDim, frameBright, g.pulse.val)
	w, h := p.Width, p.Height
	strips := [4][4][2]float32{
		{{-w - frameThick, h}, {w + frameThick, h}, {w + frameThick, h + frameThick}, {-w - frameThick, h + frameThick}},
		{{-w - frameThick, -h - frameThick}, {w + frameThick, -h - frameThick}, {w + frameThick, -h}, {-w - frameThick, -h}},
		{{-w - frameThick, -h}, {-w, -h}, {-w, h}, {-w - frameThick, h}},
		{{w, -h}, {w + frameThick, -h}, {w + frameThick, h}, {w, h}},
	}
	for _, s := range strips {
		var corners [4]mgl32.Vec3
		for i, xy := range s {
			corners[i] = mgl32.TransformCoordinate(mgl32.Vec3{xy[0], xy[1], 0}, p.Pose)
		}
		g.raster.DrawQuad(view, proj, corners, col)
	}
}

func (g *game) drawQuadAt(pose mgl32.Mat4, half float32, col [4]uint8, view, proj mgl32.Mat4) {
	corners := [4]mgl32.Vec3{
		mgl32.TransformCoordinate(mgl32.Vec3{-half, -half, 0}, pose),
		mgl32.TransformCoordinate(mgl32.Vec3{half, -half, 0}, pose),
		mgl32.TransformCoordinate(mgl32.Vec3{half, half, 0}, pose),
		mgl32.TransformCoordinate(mgl32.Vec3{-half, half, 0}, pose),
	}
	g.raster.DrawQuad(view, proj, corners, col)
}

// buildRooms lays out two closed boxes, warm and cool.
func buildRooms() []wall {
	var walls []wall
	walls = append(walls, room(0, warmWall, warmFloor, warmCeil)...)
	walls = append(walls, room(roomBX, coolWall, coolFloor, coolCeil)...)
	return walls
}

func room(cx float32, wallCol, floorCol, ceilCol [4]uint8) []wall {
	h := float32(roomHalf)
	top := float32(roomHeight)
	return []wall{
		{[4]mgl32.Vec3{{cx - h, 0, -h}, {cx + h, 0, -h}, {cx + h, 0, h}, {cx - h, 0, h}}, floorCol},
		{[4]mgl32.Vec3{{cx - h, top, -h}, {cx + h, top, -h}, {cx + h, top, h}, {cx - h, top, h}}, ceilCol},
		{[4]mgl32.Vec3{{cx - h, 0, -h}, {cx + h, 0, -h}, {cx + h, top, -h}, {cx - h, top, -h}}, wallCol},
		{[4]mgl32.Vec3{{cx - h, 0, h}, {cx + h, 0, h}, {cx + h, top, h}, {cx - h, top, h}}, wallCol},
		{[4]mgl32.Vec3{{cx - h, 0, -h}, {cx - h, 0, h}, {cx - h, top, h}, {cx - h, top, -h}}, wallCol},
		{[4]mgl32.Vec3{{cx + h, 0, -h}, {cx + h, 0, h}, {cx + h, top, h}, {cx + h, top, -h}}, wallCol},
	}
}

func mix(a, b [4]uint8, t float32) [4]uint8 {
	var out [4]uint8
	for i := range out {
		out[i] = uint8(float32(a[i]) + (float32(b[i])-float32(a[i]))*t)
	}
	return out
}

func cosf(v float32) float32 { return float32(math.Cos(float64(v))) }

func sinf(v float32) float32 { return float32(math.Sin(float64(v))) }

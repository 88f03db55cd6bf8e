// infinite faces two portal pairs at opposite ends of a hall so the view
// repeats to the recursion limit. Fly with WASD + mouse look, or replay a
// flight script with -script and collect screenshots along the way.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/wicket"
)

const (
	screenW = 960
	screenH = 540
	rasterW = 320
	rasterH = 180

	moveSpeed = 3.0
	lookSpeed = 0.004

	hallHalfW  = 3.0
	hallHeight = 3.0
	hallHalfL  = 6.0

	portalHalfW = 1.4
	portalHalfH = 1.2
)

var (
	hallWall  = [4]uint8{120, 120, 132, 255}
	hallFloor = [4]uint8{70, 70, 78, 255}
	hallCeil  = [4]uint8{150, 150, 160, 255}
	stripeRed = [4]uint8{190, 60, 60, 255}
	stripeBlu = [4]uint8{60, 90, 190, 255}
	pedestal  = [4]uint8{255, 200, 60, 255}
	voidColor = [4]uint8{8, 8, 12, 255}
)

type quad struct {
	corners [4]mgl32.Vec3
	color   [4]uint8
}

type game struct {
	comp   *wicket.Compositor
	raster *wicket.Raster
	cam    *wicket.FlyCamera
	proj   mgl32.Mat4
	hall   []quad

	flight  *wicket.Flight
	shotDir string

	mouseX   int
	mouseY   int
	hasMouse bool
}

func main() {
	scriptPath := flag.String("script", "", "flight script JSON to replay")
	shotDir := flag.String("shots", "screenshots", "directory for screenshots")
	flag.Parse()

	r, err := wicket.NewRaster(rasterW, rasterH)
	if err != nil {
		log.Fatalf("raster: %v", err)
	}

	// Two pairs sharing the end walls: recursion through one pair finds
	// the other eligible again, so the hall repeats to the depth limit.
	reg := wicket.NewRegistry()
	near := mgl32.Translate3D(0, 1.5, -hallHalfL+0.01)
	far := mgl32.Translate3D(0, 1.5, hallHalfL-0.01).Mul4(mgl32.HomogRotate3DY(math.Pi))
	a := reg.Add(wicket.NewPortal(near, portalHalfW, portalHalfH))
	b := reg.Add(wicket.NewPortal(far, portalHalfW, portalHalfH))
	c := reg.Add(wicket.NewPortal(near, portalHalfW, portalHalfH))
	d := reg.Add(wicket.NewPortal(far, portalHalfW, portalHalfH))
	if err := reg.Link(a, b); err != nil {
		log.Fatalf("link portals: %v", err)
	}
	if err := reg.Link(c, d); err != nil {
		log.Fatalf("link portals: %v", err)
	}

	g := &game{
		raster:  r,
		cam:     wicket.NewFlyCamera(mgl32.Vec3{0, 1.6, 3}),
		proj:    mgl32.Perspective(mgl32.DegToRad(75), float32(rasterW)/float32(rasterH), 0.1, 100),
		hall:    buildHall(),
		shotDir: *shotDir,
	}
	g.comp = &wicket.Compositor{
		Registry: reg,
		Device:   r,
		Scene:    wicket.RendererFunc(g.drawHall),
	}

	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.Fatalf("read script: %v", err)
		}
		g.flight, err = wicket.LoadFlight(data)
		if err != nil {
			log.Fatal(err)
		}
		g.flight.OnScreenshot = func(label string) {
			path, err := wicket.SaveScreenshot(g.raster, g.shotDir, label)
			if err != nil {
				log.Printf("screenshot %q: %v", label, err)
				return
			}
			log.Printf("saved %s", path)
		}
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("Wicket \u2014 Infinite Hall")
	if g.flight == nil {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

func (g *game) Update() error {
	const dt = 1.0 / 60

	if g.flight != nil {
		g.flight.Step(g.cam, dt)
		g.cam.Update(dt)
		if g.flight.Done() {
			return ebiten.Termination
		}
		return nil
	}

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
	g.cam.Move(fwd, right, 0)
	g.cam.Update(dt)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	r := g.raster
	r.ClearColor(voidColor)
	r.ClearDepth()
	r.ClearMask(0)
	r.Apply(wicket.DefaultState())

	vp := g.cam.Viewpoint(g.proj)
	g.drawHall(vp.View, vp.Projection)
	g.comp.RenderPortals(vp)

	screen.WritePixels(r.Pixels())

	s := g.comp.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"fps %.0f\nbranches %d  culled %d\ndegenerate %d  budget %d\ndepth %d",
		ebiten.ActualFPS(), s.Branches, s.Culled,
		s.SkippedDegenerate, s.SkippedBudget, s.MaxDepth))
}

func (g *game) Layout(_, _ int) (int, int) { return rasterW, rasterH }

func (g *game) drawHall(view, proj mgl32.Mat4) {
	for _, q := range g.hall {
		g.raster.DrawQuad(view, proj, q.corners, q.color)
	}
}

// buildHall lays out the closed corridor plus landmarks that make the
// repetition readable: colored stripes on each side and one pedestal.
func buildHall() []quad {
	w := float32(hallHalfW)
	top := float32(hallHeight)
	l := float32(hallHalfL)
	quads := []quad{
		{[4]mgl32.Vec3{{-w, 0, -l}, {w, 0, -l}, {w, 0, l}, {-w, 0, l}}, hallFloor},
		{[4]mgl32.Vec3{{-w, top, -l}, {w, top, -l}, {w, top, l}, {-w, top, l}}, hallCeil},
		{[4]mgl32.Vec3{{-w, 0, -l}, {w, 0, -l}, {w, top, -l}, {-w, top, -l}}, hallWall},
		{[4]mgl32.Vec3{{-w, 0, l}, {w, 0, l}, {w, top, l}, {-w, top, l}}, hallWall},
		{[4]mgl32.Vec3{{-w, 0, -l}, {-w, 0, l}, {-w, top, l}, {-w, top, -l}}, hallWall},
		{[4]mgl32.Vec3{{w, 0, -l}, {w, 0, l}, {w, top, l}, {w, top, -l}}, hallWall},
		// Stripes at shoulder height.
		{[4]mgl32.Vec3{{-w + 0.01, 1.2, -l}, {-w + 0.01, 1.2, l}, {-w + 0.01, 1.5, l}, {-w + 0.01, 1.5, -l}}, stripeRed},
		{[4]mgl32.Vec3{{w - 0.01, 1.2, -l}, {w - 0.01, 1.2, l}, {w - 0.01, 1.5, l}, {w - 0.01, 1.5, -l}}, stripeBlu},
		// Pedestal off center.
		{[4]mgl32.Vec3{{1.3, 0, -0.3}, {1.9, 0, -0.3}, {1.9, 0.8, -0.3}, {1.3, 0.8, -0.3}}, pedestal},
		{[4]mgl32.Vec3{{1.3, 0, 0.3}, {1.9, 0, 0.3}, {1.9, 0.8, 0.3}, {1.3, 0.8, 0.3}}, pedestal},
		{[4]mgl32.Vec3{{1.3, 0.8, -0.3}, {1.9, 0.8, -0.3}, {1.9, 0.8, 0.3}, {1.3, 0.8, 0.3}}, pedestal},
	}
	return quads
}

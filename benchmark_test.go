package wicket

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// nopDevice absorbs all draw calls so benchmarks measure traversal cost
// alone.
type nopDevice struct{}

func (nopDevice) Apply(RenderState) {}

func (nopDevice) ClearMask(uint8) {}

func (nopDevice) DrawAperture(*Portal, mgl32.Mat4, mgl32.Mat4) {}

// benchChain builds the four-portal two-pair corridor used by the
// traversal benchmarks.
func benchChain(b *testing.B) *Registry {
	reg := NewRegistry()
	var h [4]Handle
	for i := range h {
		h[i] = reg.Add(NewPortal(mgl32.Translate3D(float32(i*2), 0, 0), 1, 1))
	}
	if err := reg.Link(h[0], h[1]); err != nil {
		b.Fatal(err)
	}
	if err := reg.Link(h[2], h[3]); err != nil {
		b.Fatal(err)
	}
	return reg
}

// --- Transform math ---------------------------------------------------------

func BenchmarkVirtualView(b *testing.B) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 1.7, 5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})
	source := mgl32.Translate3D(0, 1, 0)
	target := mgl32.Translate3D(12, 1, -4).Mul4(mgl32.HomogRotate3DY(1.2))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = VirtualView(view, source, target)
	}
}

func BenchmarkObliqueProjection(b *testing.B) {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 16.0/9, 0.1, 100)
	plane := mgl32.Vec4{0, 0, -1, -4.99}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ObliqueProjection(proj, plane)
	}
}

func BenchmarkSignedDistance(b *testing.B) {
	pose := mgl32.Translate3D(3, 1, -2).Mul4(mgl32.HomogRotate3DY(0.7))
	p := mgl32.Vec3{1, 2, 3}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = SignedDistance(p, pose)
	}
}

func BenchmarkFrustumCullsQuad(b *testing.B) {
	f := testFrustum()
	p := NewPortal(mgl32.Translate3D(0, 0, -5), 1, 2)
	corners := p.Corners()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = f.CullsQuad(corners)
	}
}

// --- Portal traversal -------------------------------------------------------

func BenchmarkRenderPortalsFourPortals(b *testing.B) {
	c := &Compositor{
		Registry:     benchChain(b),
		Device:       nopDevice{},
		MaxRecursion: 4,
	}
	vp := frontViewpoint()
	c.RenderPortals(vp) // warmup

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.RenderPortals(vp)
	}
}

// --- Crossing detection -----------------------------------------------------

func BenchmarkShouldTeleport(b *testing.B) {
	reg := NewRegistry()
	src := reg.Add(NewPortal(mgl32.Ident4(), 1, 1))
	dst := reg.Add(NewPortal(mgl32.Translate3D(10, 0, 0), 1, 1))
	if err := reg.Link(src, dst); err != nil {
		b.Fatal(err)
	}
	tp := Teleporter{Registry: reg}
	tr := NewTraveler(mgl32.Vec3{0, 0, 1})
	tr.Position = mgl32.Vec3{0, 0, -1}

	now := 10.0
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		now++
		_ = tp.ShouldTeleport(&tr, src, now)
	}
}

// --- Software raster --------------------------------------------------------

func BenchmarkRasterAperture(b *testing.B) {
	r, err := NewRaster(128, 128)
	if err != nil {
		b.Fatal(err)
	}
	// Always pass the depth test so every iteration pays full fill cost.
	s := DefaultState()
	s.DepthFunc = CompareAlways
	r.Apply(s)

	p := NewPortal(mgl32.Ident4(), 1, 1)
	vp := frontViewpoint()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.DrawAperture(&p, vp.View, vp.Projection)
	}
}

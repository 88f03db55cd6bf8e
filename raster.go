package wicket

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// wEps is the clip-space w cutoff; vertices closer to the eye plane than
// this are clipped before the perspective divide.
const wEps = 1e-4

// Raster is the built-in software Device: an RGBA color buffer, a float32
// depth buffer, and an 8-bit mask buffer, with CPU triangle rasterization
// honoring the current RenderState. It backs the demos and gives tests a
// pixel-exact implementation of the mask semantics; a GPU-backed Device
// can replace it without touching the Compositor.
//
// All triangles draw double-sided. Colors are flat per call.
type Raster struct {
	w, h  int
	color []uint8
	depth []float32
	mask  []uint8
	state RenderState
}

// NewRaster returns a raster target of the given pixel size with depth
// cleared to the far plane and the default pipeline state applied.
func NewRaster(w, h int) (*Raster, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", w, h)
	}
	r := &Raster{
		w:     w,
		h:     h,
		color: make([]uint8, w*h*4),
		depth: make([]float32, w*h),
		mask:  make([]uint8, w*h),
		state: DefaultState(),
	}
	r.ClearDepth()
	return r, nil
}

// Size returns the target's width and height in pixels.
func (r *Raster) Size() (int, int) { return r.w, r.h }

// Apply makes s the current pipeline state.
func (r *Raster) Apply(s RenderState) { r.state = s }

// State returns the current pipeline state.
func (r *Raster) State() RenderState { return r.state }

// ClearMask fills the mask buffer with ref.
func (r *Raster) ClearMask(ref uint8) {
	for i := range r.mask {
		r.mask[i] = ref
	}
}

// ClearDepth resets every depth sample to the far plane.
func (r *Raster) ClearDepth() {
	for i := range r.depth {
		r.depth[i] = 1
	}
}

// ClearColor fills the whole color buffer, ignoring the ColorWrite
// toggle.
func (r *Raster) ClearColor(rgba [4]uint8) {
	for i := 0; i < len(r.color); i += 4 {
		r.color[i+0] = rgba[0]
		r.color[i+1] = rgba[1]
		r.color[i+2] = rgba[2]
		r.color[i+3] = rgba[3]
	}
}

// DrawAperture rasterizes the portal's aperture rectangle under the
// current state. Aperture passes never shade, so the quad draws a flat
// gray in the rare case color writes are on.
func (r *Raster) DrawAperture(p *Portal, view, proj mgl32.Mat4) {
	mvp := proj.Mul4(view)
	corners := p.Corners()
	gray := [4]uint8{128, 128, 128, 255}
	r.rasterize(mvp, corners[0], corners[1], corners[2], gray)
	r.rasterize(mvp, corners[0], corners[2], corners[3], gray)
}

// DrawTriangle rasterizes one world-space triangle with a flat color.
// Scene renderers drawing into a Raster go through here, so masking and
// depth behave identically for scene content and aperture passes.
func (r *Raster) DrawTriangle(view, proj mgl32.Mat4, a, b, c mgl32.Vec3, rgba [4]uint8) {
	r.rasterize(proj.Mul4(view), a, b, c, rgba)
}

// DrawQuad rasterizes a world-space quad given in fan order.
func (r *Raster) DrawQuad(view, proj mgl32.Mat4, corners [4]mgl32.Vec3, rgba [4]uint8) {
	mvp := proj.Mul4(view)
	r.rasterize(mvp, corners[0], corners[1], corners[2], rgba)
	r.rasterize(mvp, corners[0], corners[2], corners[3], rgba)
}

// rasterize transforms one world-space triangle to clip space, clips it
// against the eye plane, and rasterizes the surviving fan.
func (r *Raster) rasterize(mvp mgl32.Mat4, a, b, c mgl32.Vec3, rgba [4]uint8) {
	tri := [3]mgl32.Vec4{
		mvp.Mul4x1(a.Vec4(1)),
		mvp.Mul4x1(b.Vec4(1)),
		mvp.Mul4x1(c.Vec4(1)),
	}
	var poly [4]mgl32.Vec4
	n := clipW(tri, &poly)
	for i := 2; i < n; i++ {
		r.rasterTri(poly[0], poly[i-1], poly[i], rgba)
	}
}

// clipW clips a clip-space triangle against w >= wEps (Sutherland-
// Hodgman) into out, returning the vertex count. At most 4 vertices
// survive a single-plane clip.
func clipW(tri [3]mgl32.Vec4, out *[4]mgl32.Vec4) int {
	n := 0
	for i := 0; i < 3; i++ {
		cur := tri[i]
		prev := tri[(i+2)%3]
		curIn := cur.W() >= wEps
		prevIn := prev.W() >= wEps
		if curIn != prevIn {
			t := (wEps - prev.W()) / (cur.W() - prev.W())
			out[n] = prev.Add(cur.Sub(prev).Mul(t))
			n++
		}
		if curIn {
			out[n] = cur
			n++
		}
	}
	return n
}

// rasterTri rasterizes one clipped clip-space triangle with edge
// functions, interpolating NDC depth linearly in screen space.
func (r *Raster) rasterTri(c0, c1, c2 mgl32.Vec4, rgba [4]uint8) {
	i0 := 1 / c0.W()
	i1 := 1 / c1.W()
	i2 := 1 / c2.W()

	x0 := (c0.X()*i0*0.5 + 0.5) * float32(r.w)
	y0 := (1 - (c0.Y()*i0*0.5 + 0.5)) * float32(r.h)
	z0 := c0.Z() * i0
	x1 := (c1.X()*i1*0.5 + 0.5) * float32(r.w)
	y1 := (1 - (c1.Y()*i1*0.5 + 0.5)) * float32(r.h)
	z1 := c1.Z() * i1
	x2 := (c2.X()*i2*0.5 + 0.5) * float32(r.w)
	y2 := (1 - (c2.Y()*i2*0.5 + 0.5)) * float32(r.h)
	z2 := c2.Z() * i2

	// Signed doubled area; degenerate triangles vanish, both windings
	// draw.
	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area == 0 {
		return
	}
	invArea := 1 / area

	minX := clampi(int(min(x0, x1, x2)), 0, r.w)
	maxX := clampi(int(max(x0, x1, x2))+1, 0, r.w)
	minY := clampi(int(min(y0, y1, y2)), 0, r.h)
	maxY := clampi(int(max(y0, y1, y2))+1, 0, r.h)

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5
			w0 := ((x2-x1)*(py-y1) - (y2-y1)*(px-x1)) * invArea
			w1 := ((x0-x2)*(py-y2) - (y0-y2)*(px-x2)) * invArea
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			ndcZ := w0*z0 + w1*z1 + w2*z2
			if ndcZ < -1 || ndcZ > 1 {
				continue
			}
			r.shade(y*r.w+x, ndcZ, rgba)
		}
	}
}

// shade runs the per-fragment mask and depth pipeline at buffer index i.
func (r *Raster) shade(i int, ndcZ float32, rgba [4]uint8) {
	s := &r.state
	if !passes(s.MaskFunc, s.MaskRef&s.MaskBits, r.mask[i]&s.MaskBits) {
		return
	}
	d := s.DepthNear + (s.DepthFar-s.DepthNear)*(ndcZ*0.5+0.5)
	if !passes(s.DepthFunc, d, r.depth[i]) {
		return
	}
	switch s.MaskOp {
	case MaskReplace:
		r.mask[i] = s.MaskWrite
	case MaskZero:
		r.mask[i] = 0
	}
	if s.DepthWrite {
		r.depth[i] = d
	}
	if s.ColorWrite {
		o := i * 4
		r.color[o+0] = rgba[0]
		r.color[o+1] = rgba[1]
		r.color[o+2] = rgba[2]
		r.color[o+3] = rgba[3]
	}
}

// MaskAt returns the mask value at a pixel.
func (r *Raster) MaskAt(x, y int) uint8 { return r.mask[y*r.w+x] }

// DepthAt returns the window depth at a pixel.
func (r *Raster) DepthAt(x, y int) float32 { return r.depth[y*r.w+x] }

// ColorAt returns the RGBA color at a pixel.
func (r *Raster) ColorAt(x, y int) [4]uint8 {
	o := (y*r.w + x) * 4
	return [4]uint8{r.color[o], r.color[o+1], r.color[o+2], r.color[o+3]}
}

// Pixels exposes the RGBA color buffer, row-major from the top-left,
// 4*width*height bytes. The layout matches ebiten.Image.WritePixels.
func (r *Raster) Pixels() []byte { return r.color }

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

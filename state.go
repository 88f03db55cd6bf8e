package wicket

import "github.com/go-gl/mathgl/mgl32"

// CompareFunc selects how an incoming fragment value is tested against the
// stored one, for both the mask and the depth buffer.
type CompareFunc uint8

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// MaskOp selects what happens to the stored mask value when a fragment
// passes both the mask and depth tests. Failing fragments always keep.
type MaskOp uint8

const (
	MaskKeep MaskOp = iota
	MaskReplace
	MaskZero
)

// RenderState is the complete pipeline state one draw runs under. The
// Compositor threads explicit RenderState values through every traversal
// step, restoring the enclosing state around each one, rather than
// flipping ambient toggles that a missed restore would leak into sibling
// branches.
//
// MaskWrite is deliberately separate from MaskRef: marking a nested
// region compares against the parent's reference while writing a new one,
// which a coupled compare-and-write reference cannot express in a single
// pass.
type RenderState struct {
	MaskFunc CompareFunc
	// MaskRef is the comparison reference for MaskFunc.
	MaskRef uint8
	// MaskBits is ANDed with both MaskRef and the stored value before
	// the comparison.
	MaskBits uint8
	MaskOp   MaskOp
	// MaskWrite is the value MaskReplace stores on pass.
	MaskWrite  uint8
	ColorWrite bool
	DepthWrite bool
	DepthFunc  CompareFunc
	// DepthNear and DepthFar remap NDC depth into window depth. Pinning
	// both to 1 forces every passing fragment to the far plane.
	DepthNear float32
	DepthFar  float32
}

// DefaultState is the baseline the Compositor assumes on entry and
// restores before returning: mask test off (always passes, keep), color
// and depth writes on, less-than depth testing over the full range.
func DefaultState() RenderState {
	return RenderState{
		MaskFunc:   CompareAlways,
		MaskRef:    0,
		MaskBits:   0xFF,
		MaskOp:     MaskKeep,
		MaskWrite:  0,
		ColorWrite: true,
		DepthWrite: true,
		DepthFunc:  CompareLess,
		DepthNear:  0,
		DepthFar:   1,
	}
}

// Device is the mask/visibility buffer service the Compositor drives. A
// Device owns a color target, a depth buffer, and an 8-bit per-pixel mask
// buffer; the whole traversal is expressed through these three calls,
// independent of any particular graphics API. Raster is the built-in
// software implementation.
type Device interface {
	// Apply makes s the current pipeline state for subsequent draws.
	Apply(s RenderState)
	// ClearMask fills the entire mask buffer with ref.
	ClearMask(ref uint8)
	// DrawAperture rasterizes the portal's aperture rectangle under the
	// current state.
	DrawAperture(p *Portal, view, proj mgl32.Mat4)
}

// passes evaluates f with the incoming value on the left, so CompareLess
// reads "incoming < stored".
func passes[T uint8 | float32](f CompareFunc, incoming, stored T) bool {
	switch f {
	case CompareLess:
		return incoming < stored
	case CompareEqual:
		return incoming == stored
	case CompareLessEqual:
		return incoming <= stored
	case CompareGreater:
		return incoming > stored
	case CompareNotEqual:
		return incoming != stored
	case CompareGreaterEqual:
		return incoming >= stored
	case CompareAlways:
		return true
	}
	return false
}

package wicket

import (
	"fmt"
	"os"
)

// SetDebug toggles per-frame traversal reporting on stderr. Off by
// default. The report covers branch, cull, and skip counts plus the
// deepest nesting reached; the same numbers are available quietly via
// Stats.
func (c *Compositor) SetDebug(on bool) {
	c.debug = on
}

// logFrame prints the frame's traversal stats to stderr.
func (c *Compositor) logFrame() {
	s := c.stats
	_, _ = fmt.Fprintf(os.Stderr,
		"[wicket] branches: %d | culled: %d | degenerate: %d | budget: %d | depth: %d\n",
		s.Branches, s.Culled, s.SkippedDegenerate, s.SkippedBudget, s.MaxDepth)
	_, _ = fmt.Fprintf(os.Stderr,
		"[wicket] aperture draws: %d | scene draws: %d\n",
		s.ApertureDraws, s.SceneDraws)
}

// debugCheckMaskBudget warns on stderr when a portal count and recursion
// limit could run the 8-bit mask buffer out of distinct references.
func debugCheckMaskBudget(portalCount, maxRecursion int) {
	if portalCount*maxRecursion > maskBudget {
		_, _ = fmt.Fprintf(os.Stderr,
			"[wicket] warning: %d portals at recursion limit %d can exceed %d mask references\n",
			portalCount, maxRecursion, maskBudget)
	}
}

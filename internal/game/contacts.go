package game

import (
	cp "github.com/jakecoffman/cp/v2"
)

// Surface tags a terrain shape. Stored on the shape's UserData so contact
// queries can tell ice from grippy ground.
type Surface struct {
	Name     string
	Ice      bool
	Friction float64
}

// groundContact is one segment-vs-static-surface touch.
type groundContact struct {
	seg     *Segment
	body    *cp.Body // the static body touched
	shape   *cp.Shape
	surface *Surface // nil for untagged statics, treated as plain ground
	point   cp.Vector
	normal  cp.Vector
}

// contactsFor collects the static-body contacts of a single segment.
func contactsFor(seg *Segment) []groundContact {
	var out []groundContact
	seg.Body.EachArbiter(func(arb *cp.Arbiter) {
		a, b := arb.Shapes()
		other := a
		segFirst := false
		if a.Body() == seg.Body {
			other = b
			segFirst = true
		}
		if other.Body().GetType() != cp.BODY_STATIC {
			return
		}

		set := arb.ContactPointSet()
		if set.Count == 0 {
			return
		}
		// Use the contact point on the static side.
		point := set.Points[0].PointA
		if segFirst {
			point = set.Points[0].PointB
		}
		normal := set.Normal
		if !segFirst {
			normal = normal.Neg()
		}

		surface, _ := other.UserData.(*Surface)
		out = append(out, groundContact{
			seg:     seg,
			body:    other.Body(),
			shape:   other,
			surface: surface,
			point:   point,
			normal:  normal,
		})
	})
	return out
}

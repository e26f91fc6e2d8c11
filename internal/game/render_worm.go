package game

// WormRenderData appends one round sprite per segment, shaded head-to-tail,
// tinted gold while the wheel is formed.
// Format: [x, y, size, r, g, b, a, rotation] * N.
func (c *Creature) WormRenderData(buf []float32) []float32 {
	n := len(c.segments)
	if n == 0 {
		return buf
	}
	rolling := c.Mode() == ModeRolling

	for _, s := range c.segments {
		f := 0.0
		if n > 1 {
			f = float64(s.Index) / float64(n-1)
		}
		col := lerpRGB(Palette.WormHead, Palette.WormTail, f)
		if rolling {
			col = lerpRGB(col, Palette.WormRoll, 0.55)
		}
		p := s.Position()
		buf = append(buf,
			float32(p.X), float32(p.Y), float32(s.Radius*2),
			float32(col.R)/255, float32(col.G)/255, float32(col.B)/255, 1, 0)
	}
	return buf
}

// AnchorDots appends the movement anchor markers.
func (c *Creature) AnchorDots(buf []float32) []float32 {
	if c.move == nil {
		return buf
	}
	return c.move.AnchorDots(buf)
}

// GrabGlowData appends a soft glow over every pinned segment.
func (c *Creature) GrabGlowData(buf []float32) []float32 {
	if c.grab == nil || c.grab.head == nil {
		return buf
	}
	col := Palette.GrabMark
	for _, ch := range []*grabChannel{c.grab.head, c.grab.tail} {
		for idx := range ch.pins {
			p := c.segments[idx].Position()
			buf = append(buf,
				float32(p.X), float32(p.Y), float32(c.segments[idx].Radius*4),
				float32(col.R)/255*0.5, float32(col.G)/255*0.5, float32(col.B)/255*0.5, 1, 0)
		}
	}
	return buf
}

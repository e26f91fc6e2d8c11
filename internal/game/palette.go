package game

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

func lerpRGB(a, b RGB, t float64) RGB {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return RGB{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

var Palette = struct {
	Background RGB
	Ground     RGB
	GroundEdge RGB
	Ice        RGB
	WormHead   RGB
	WormTail   RGB
	WormRoll   RGB
	GrabMark   RGB
	Anchor     RGB
	Dust       RGB
	Spark      RGB
	Glow       RGB
}{
	Background: RGB{R: 24, G: 26, B: 34},
	Ground:     RGB{R: 86, G: 74, B: 58},
	GroundEdge: RGB{R: 120, G: 104, B: 78},
	Ice:        RGB{R: 150, G: 196, B: 224},
	WormHead:   RGB{R: 236, G: 120, B: 64},
	WormTail:   RGB{R: 180, G: 70, B: 90},
	WormRoll:   RGB{R: 244, G: 180, B: 70},
	GrabMark:   RGB{R: 120, G: 230, B: 130},
	Anchor:     RGB{R: 240, G: 240, B: 220},
	Dust:       RGB{R: 140, G: 124, B: 96},
	Spark:      RGB{R: 255, G: 220, B: 140},
	Glow:       RGB{R: 255, G: 200, B: 120},
}

package game

import (
	cp "github.com/jakecoffman/cp/v2"
)

const terrainThickness = 2.0

var (
	surfGround = &Surface{Name: "ground", Friction: 0.9}
	surfIce    = &Surface{Name: "ice", Ice: true, Friction: 0.05}
	surfWall   = &Surface{Name: "wall", Friction: 0.8}
)

// Terrain is the static demo level: a floor with an ice patch, boundary
// walls, a climbing wall and a few platforms to jump between.
type Terrain struct {
	space  *cp.Space
	shapes []*cp.Shape

	spriteBuf []float32 // cached, terrain never moves
}

func NewTerrain(space *cp.Space) *Terrain {
	t := &Terrain{space: space}

	floorY := 12.0

	// Floor in three spans, the middle one iced over.
	t.addSegment(cp.Vector{X: 0, Y: floorY}, cp.Vector{X: 200, Y: floorY}, surfGround)
	t.addSegment(cp.Vector{X: 200, Y: floorY}, cp.Vector{X: 300, Y: floorY}, surfIce)
	t.addSegment(cp.Vector{X: 300, Y: floorY}, cp.Vector{X: WorldWidth, Y: floorY}, surfGround)

	// Boundary walls and ceiling.
	t.addSegment(cp.Vector{X: 2, Y: 0}, cp.Vector{X: 2, Y: WorldHeight}, surfWall)
	t.addSegment(cp.Vector{X: WorldWidth - 2, Y: 0}, cp.Vector{X: WorldWidth - 2, Y: WorldHeight}, surfWall)
	t.addSegment(cp.Vector{X: 0, Y: WorldHeight - 2}, cp.Vector{X: WorldWidth, Y: WorldHeight - 2}, surfWall)

	// Platforms at jumping height.
	t.addSegment(cp.Vector{X: 120, Y: 70}, cp.Vector{X: 180, Y: 70}, surfGround)
	t.addSegment(cp.Vector{X: 250, Y: 110}, cp.Vector{X: 310, Y: 110}, surfGround)
	t.addSegment(cp.Vector{X: 370, Y: 60}, cp.Vector{X: 430, Y: 60}, surfGround)

	// Climbing wall with an overhang, reachable only by grabbing.
	t.addSegment(cp.Vector{X: 340, Y: floorY}, cp.Vector{X: 340, Y: 160}, surfWall)
	t.addSegment(cp.Vector{X: 340, Y: 160}, cp.Vector{X: 300, Y: 160}, surfWall)

	return t
}

func (t *Terrain) addSegment(a, b cp.Vector, surf *Surface) {
	shape := cp.NewSegment(t.space.StaticBody, a, b, terrainThickness)
	shape.SetFriction(surf.Friction)
	shape.SetElasticity(0.0)
	shape.UserData = surf
	t.space.AddShape(shape)
	t.shapes = append(t.shapes, shape)
}

// RenderData samples the terrain segments into point sprites. Built once;
// the terrain is static.
func (t *Terrain) RenderData() []float32 {
	if t.spriteBuf != nil {
		return t.spriteBuf
	}
	buf := make([]float32, 0, 4096)
	for _, shape := range t.shapes {
		seg := shape.Class.(*cp.Segment)
		a, b := seg.A(), seg.B()
		surf, _ := shape.UserData.(*Surface)

		col := Palette.Ground
		if surf != nil && surf.Ice {
			col = Palette.Ice
		} else if surf == surfWall {
			col = Palette.GroundEdge
		}

		d := b.Sub(a)
		length := d.Length()
		steps := int(length / 3.0)
		if steps < 1 {
			steps = 1
		}
		for i := 0; i <= steps; i++ {
			p := a.Add(d.Mult(float64(i) / float64(steps)))
			buf = append(buf,
				float32(p.X), float32(p.Y), float32(terrainThickness * 2),
				float32(col.R)/255, float32(col.G)/255, float32(col.B)/255, 1, 0)
		}
	}
	t.spriteBuf = buf
	return buf
}

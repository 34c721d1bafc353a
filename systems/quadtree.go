package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// maxTreeDepth bounds subdivision. Bodies closer than the root size over
// 2^maxTreeDepth share a leaf and are summed directly.
const maxTreeDepth = 48

const noChild = -1

// Quadrants, in the order children are stored.
const (
	leftTop = iota
	leftBottom
	rightTop
	rightBottom
)

// quadNode is one square region of the tree.
type quadNode struct {
	center   r2.Vec // geometric center
	half     float64
	mass     float64
	com      r2.Vec // center of mass
	children [4]int32
	leaf     bool
	start    int // leaf bodies are order[start:end]
	end      int
}

// Quadtree is a mass-aggregating quadtree over body positions. Nodes live in
// one slice that is reused across builds.
type Quadtree struct {
	nodes   []quadNode
	order   []int
	scratch []int
	pos     []r2.Vec
	mass    []float64
}

// NewQuadtree creates an empty tree.
func NewQuadtree() *Quadtree {
	return &Quadtree{}
}

// Build indexes bodies. Positions and masses must be finite.
func (t *Quadtree) Build(bodies []Body) {
	t.nodes = t.nodes[:0]
	t.order = t.order[:0]
	t.pos = t.pos[:0]
	t.mass = t.mass[:0]
	if len(bodies) == 0 {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range bodies {
		p := r2.Vec{X: bodies[i].Pos.X, Y: bodies[i].Pos.Y}
		t.pos = append(t.pos, p)
		t.mass = append(t.mass, bodies[i].M.Value)
		t.order = append(t.order, i)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	if cap(t.scratch) < len(bodies) {
		t.scratch = make([]int, len(bodies))
	}
	t.scratch = t.scratch[:len(bodies)]

	half := math.Max(maxX-minX, maxY-minY) / 2
	if half == 0 {
		half = 1
	}
	center := r2.Vec{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
	t.build(0, len(bodies), center, half, 0)
}

// build creates the node covering order[start:end] and returns its index.
func (t *Quadtree) build(start, end int, center r2.Vec, half float64, depth int) int32 {
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, quadNode{
		center:   center,
		half:     half,
		children: [4]int32{noChild, noChild, noChild, noChild},
	})

	if end-start == 1 || depth >= maxTreeDepth {
		var mass float64
		var weighted r2.Vec
		for _, i := range t.order[start:end] {
			mass += t.mass[i]
			weighted = r2.Add(weighted, r2.Scale(t.mass[i], t.pos[i]))
		}
		n := &t.nodes[id]
		n.leaf = true
		n.start, n.end = start, end
		n.mass = mass
		n.com = r2.Scale(1/mass, weighted)
		return id
	}

	// Stable partition of order[start:end] by quadrant.
	var counts [4]int
	for _, i := range t.order[start:end] {
		counts[locate(t.pos[i], center)]++
	}
	var offsets [4]int
	offsets[0] = start
	for q := 1; q < 4; q++ {
		offsets[q] = offsets[q-1] + counts[q-1]
	}
	next := offsets
	for _, i := range t.order[start:end] {
		q := locate(t.pos[i], center)
		t.scratch[next[q]] = i
		next[q]++
	}
	copy(t.order[start:end], t.scratch[start:end])

	var children [4]int32
	var mass float64
	var weighted r2.Vec
	for q := 0; q < 4; q++ {
		children[q] = noChild
		if counts[q] == 0 {
			continue
		}
		c := t.build(offsets[q], offsets[q]+counts[q], childCenter(center, half, q), half/2, depth+1)
		children[q] = c
		child := &t.nodes[c]
		mass += child.mass
		weighted = r2.Add(weighted, r2.Scale(child.mass, child.com))
	}

	n := &t.nodes[id]
	n.children = children
	n.mass = mass
	n.com = r2.Scale(1/mass, weighted)
	return id
}

// locate returns the quadrant of p relative to center.
func locate(p, center r2.Vec) int {
	if p.X < center.X {
		if p.Y < center.Y {
			return leftTop
		}
		return leftBottom
	}
	if p.Y < center.Y {
		return rightTop
	}
	return rightBottom
}

func childCenter(center r2.Vec, half float64, q int) r2.Vec {
	shift := half / 2
	switch q {
	case leftTop:
		return r2.Vec{X: center.X - shift, Y: center.Y - shift}
	case leftBottom:
		return r2.Vec{X: center.X - shift, Y: center.Y + shift}
	case rightTop:
		return r2.Vec{X: center.X + shift, Y: center.Y - shift}
	default:
		return r2.Vec{X: center.X + shift, Y: center.Y + shift}
	}
}

// AccelOn returns the softened acceleration on body i from every other body.
// A node is treated as a single mass when
// (|p - com|² + 1) / (|size|² + 1) > ratio, where size is the node's side
// vector. Leaves are summed body by body, skipping i.
func (t *Quadtree) AccelOn(i int, ratio, g, softening float64) r2.Vec {
	if len(t.nodes) == 0 {
		return r2.Vec{}
	}
	return t.accel(0, i, ratio, g, softening*softening)
}

func (t *Quadtree) accel(id int32, i int, ratio, g, eps2 float64) r2.Vec {
	n := &t.nodes[id]
	p := t.pos[i]

	if n.leaf {
		var a r2.Vec
		for _, j := range t.order[n.start:n.end] {
			if j == i {
				continue
			}
			a = r2.Add(a, pull(p, t.pos[j], t.mass[j], g, eps2))
		}
		return a
	}

	side := 2 * n.half
	if (r2.Norm2(r2.Sub(n.com, p))+1)/(2*side*side+1) > ratio {
		return pull(p, n.com, n.mass, g, eps2)
	}

	var a r2.Vec
	for _, c := range n.children {
		if c != noChild {
			a = r2.Add(a, t.accel(c, i, ratio, g, eps2))
		}
	}
	return a
}

// pull is the softened acceleration at p toward mass m at q. Coincident
// points exert none.
func pull(p, q r2.Vec, m, g, eps2 float64) r2.Vec {
	d := r2.Sub(q, p)
	d2 := r2.Norm2(d)
	if d2 == 0 {
		return r2.Vec{}
	}
	return r2.Scale(g*m/(math.Sqrt(d2)*(d2+eps2)), d)
}

// Package tiles is a procedural height-map source for the LOD cache. Leaf
// tiles are sampled from value noise; coarser tiles are downsampled from
// their four children when those are loaded, or sampled directly otherwise.
package tiles

import (
	"fmt"

	"github.com/IvanBrykalov/lodcache/internal/util"
	"github.com/IvanBrykalov/lodcache/quadtree"
)

// latticeSpacing is the distance in pixels between noise lattice points of
// the first octave.
const latticeSpacing = 256

const octaves = 4

// Tile is a square grid of heights; row 0 is the lowest y.
type Tile struct {
	X, Y    int64 // lower-left corner in leaf units
	Level   int
	Size    int
	Heights []float32

	// Bounds of Heights. Downsampled tiles merge the bounds of their
	// children, so they may be wider than the averaged samples.
	MinHeight, MaxHeight float32

	// Coarse holds the parent tile's heights over this tile's area,
	// upsampled to Size x Size, for morphing between levels. Nil when the
	// source is not morphing or the parent had no data yet.
	Coarse []float32
}

// At returns the height of sample (i, j).
func (t *Tile) At(i, j int) float32 { return t.Heights[j*t.Size+i] }

// Stats counts what a Source produced.
type Stats struct {
	Sampled     int
	Downsampled int
	Morphed     int
	Freed       int
}

// Source generates tiles of Size x Size samples. Size must match the tree's
// LeafSize so a leaf sample is exactly one pixel. Like the tree it feeds, a
// Source is not safe for concurrent use.
type Source struct {
	size  int
	seed  uint64
	spare [][]float32 // buffers of freed tiles
	stats Stats
	tree  *quadtree.Tree[*Tile]
}

// NewSource returns a source for tiles of size x size samples.
// size must be a power of two >= 2 so tiles halve cleanly.
func NewSource(size int, seed uint64) (*Source, error) {
	if size < 2 || !util.IsPowerOfTwo(uint64(size)) {
		return nil, fmt.Errorf("tiles: size %d is not a power of two >= 2", size)
	}
	return &Source{size: size, seed: seed}, nil
}

// Size returns the tile edge length in samples.
func (s *Source) Size() int { return s.size }

// Stats returns the counters collected so far.
func (s *Source) Stats() Stats { return s.stats }

// Morph makes Load fill Tile.Coarse from the parent tile in tr, loading the
// parent with its children first when needed. tr must be the tree whose
// Loader is s.Load.
func (s *Source) Morph(tr *quadtree.Tree[*Tile]) { s.tree = tr }

// Load is a quadtree.LoadFunc. It never reports missing data.
func (s *Source) Load(n *quadtree.Node[*Tile]) (*Tile, bool) {
	t := &Tile{X: n.X(), Y: n.Y(), Level: n.Level(), Size: s.size}
	t.Heights = s.buffer()

	if children, ok := loadedChildren(n); ok {
		s.downsample(t, children)
		s.stats.Downsampled++
	} else {
		s.sample(t)
		s.stats.Sampled++
	}

	if p := n.Parent(); s.tree != nil && p != nil {
		if parent, ok := s.tree.Load(p, true); ok {
			t.Coarse = s.buffer()
			s.upsample(t.Coarse, parent, n.ParentIndex())
			s.stats.Morphed++
		}
	}
	return t, true
}

// Free is a quadtree.FreeFunc keeping the sample buffers for reuse.
func (s *Source) Free(t *Tile) {
	if t == nil {
		return
	}
	s.spare = append(s.spare, t.Heights)
	if t.Coarse != nil {
		s.spare = append(s.spare, t.Coarse)
	}
	t.Heights, t.Coarse = nil, nil
	s.stats.Freed++
}

func (s *Source) buffer() []float32 {
	if n := len(s.spare); n > 0 {
		b := s.spare[n-1]
		s.spare = s.spare[:n-1]
		return b
	}
	return make([]float32, s.size*s.size)
}

// Height returns the terrain height at pixel (px, py).
func (s *Source) Height(px, py int64) float32 {
	var h, amp float64 = 0, 1
	spacing := int64(latticeSpacing)
	for o := 0; o < octaves; o++ {
		h += amp * s.valueNoise(px, py, spacing, uint64(o))
		amp /= 2
		spacing /= 2
	}
	return float32(h)
}

func (s *Source) sample(t *Tile) {
	stride := int64(1) << uint(t.Level)
	minX, minY := t.X*int64(s.size), t.Y*int64(s.size)
	lo, hi := float32(MaxHeight), float32(0)
	for j := 0; j < s.size; j++ {
		for i := 0; i < s.size; i++ {
			h := s.Height(minX+int64(i)*stride, minY+int64(j)*stride)
			t.Heights[j*s.size+i] = h
			lo, hi = min(lo, h), max(hi, h)
		}
	}
	t.MinHeight, t.MaxHeight = lo, hi
}

// downsample averages 2x2 blocks of each child into its quadrant of t.
func (s *Source) downsample(t *Tile, children [4]*Tile) {
	half := s.size / 2
	for j := 0; j < s.size; j++ {
		for i := 0; i < s.size; i++ {
			c := children[i/half|(j/half)<<1]
			ci, cj := (i%half)*2, (j%half)*2
			sum := c.At(ci, cj) + c.At(ci+1, cj) + c.At(ci, cj+1) + c.At(ci+1, cj+1)
			t.Heights[j*s.size+i] = sum / 4
		}
	}
	t.MinHeight, t.MaxHeight = children[0].MinHeight, children[0].MaxHeight
	for _, c := range children[1:] {
		t.MinHeight, t.MaxHeight = min(t.MinHeight, c.MinHeight), max(t.MaxHeight, c.MaxHeight)
	}
}

// upsample copies the quadrant idx of parent into dst at twice the scale.
func (s *Source) upsample(dst []float32, parent *Tile, idx int) {
	half := s.size / 2
	ox, oy := (idx&1)*half, (idx>>1)*half
	for j := 0; j < s.size; j++ {
		for i := 0; i < s.size; i++ {
			dst[j*s.size+i] = parent.At(ox+i/2, oy+j/2)
		}
	}
}

func loadedChildren(n *quadtree.Node[*Tile]) ([4]*Tile, bool) {
	var out [4]*Tile
	if n.IsLeaf() {
		return out, false
	}
	for i := range out {
		c := n.Child(i)
		if c == nil {
			return out, false
		}
		t, ok := c.Data()
		if !ok {
			return out, false
		}
		out[i] = t
	}
	return out, true
}

// valueNoise bilinearly interpolates hashed lattice values in [0,1).
func (s *Source) valueNoise(px, py, spacing int64, octave uint64) float64 {
	cx, cy := util.FloorDiv(px, spacing), util.FloorDiv(py, spacing)
	fx := float64(px-cx*spacing) / float64(spacing)
	fy := float64(py-cy*spacing) / float64(spacing)

	v00 := s.lattice(cx, cy, octave)
	v10 := s.lattice(cx+1, cy, octave)
	v01 := s.lattice(cx, cy+1, octave)
	v11 := s.lattice(cx+1, cy+1, octave)

	fx, fy = smooth(fx), smooth(fy)
	bottom := v00 + (v10-v00)*fx
	top := v01 + (v11-v01)*fx
	return bottom + (top-bottom)*fy
}

func (s *Source) lattice(x, y int64, octave uint64) float64 {
	h := splitmix64(s.seed ^ splitmix64(uint64(x)^splitmix64(uint64(y)+octave)))
	return float64(h>>11) / float64(1<<53)
}

func smooth(f float64) float64 { return f * f * (3 - 2*f) }

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// MaxHeight is the upper bound of Height.
const MaxHeight = 2 - 1.0/(1<<(octaves-1))

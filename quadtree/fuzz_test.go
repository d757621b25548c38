//go:build go1.18

package quadtree

import (
	"encoding/binary"
	"testing"
)

// Fuzz lookups at arbitrary points and levels.
// Guards against panics and checks the weight and capacity invariants
// after every operation.
func FuzzTree_Lookup(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 0, 0, 0, 0})
	f.Add([]byte{0xff, 0xff, 0x10, 0x00, 3, 0x7f, 0xff, 0x80, 0x00, 1})
	f.Add([]byte("lodcache-fuzz-seed-with-some-bytes"))

	f.Fuzz(func(t *testing.T, ops []byte) {
		// Cap the op count to keep each input fast.
		const limit = 256
		rec := newRecorder()
		opt := rec.options(16, 64)
		opt.PreloadChildData = len(ops) > 0 && ops[0]&1 == 1
		tr := New[string](opt)
		t.Cleanup(tr.Destroy)

		for i := 0; i+5 <= len(ops) && i/5 < limit; i += 5 {
			x := float64(int16(binary.LittleEndian.Uint16(ops[i:])))
			y := float64(int16(binary.LittleEndian.Uint16(ops[i+2:])))
			tr.Expand(x, y)
			// keep preloaded subtrees small
			maxLevel := tr.Root().Level()
			if opt.PreloadChildData && maxLevel > 1 {
				maxLevel = 1
			}
			level := int(ops[i+4]) % (maxLevel + 1)
			if _, ok := tr.Lookup(x, y, level); !ok {
				t.Fatalf("lookup (%g,%g,%d) returned no data", x, y, level)
			}
			if err := tr.CheckWeights(); err != nil {
				t.Fatal(err)
			}
			if !opt.PreloadChildData && tr.Weight() > tr.Capacity() {
				t.Fatalf("weight %d above capacity %d", tr.Weight(), tr.Capacity())
			}
		}
		tr.Prune()
		if tr.Weight() > tr.Capacity() {
			t.Fatalf("weight %d above capacity %d after prune", tr.Weight(), tr.Capacity())
		}
	})
}

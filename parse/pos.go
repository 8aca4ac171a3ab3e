package parse

import "sort"

// posDoc maps byte offsets in the input to 1-based line/column pairs.
type posDoc struct {
	d []byte
	n []int
}

func newPosDoc(d []byte) *posDoc {
	p := &posDoc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

func (p *posDoc) lineCol(off int) (int, int) {
	if off < 0 {
		return 0, 0
	}
	if off > len(p.d) {
		off = len(p.d)
	}
	di := sort.Search(len(p.n), func(i int) bool {
		return p.n[i] >= off
	})
	if di == 0 {
		return 1, off + 1
	}
	return di + 1, off - p.n[di-1]
}

package graph

import (
	"github.com/midbel/sheetcalc/layout"
)

const (
	bucketSize = 64
	maxBuckets = 16
)

type item struct {
	area layout.Range
	node *Node
}

// areaIndex finds the nodes attached to the areas intersecting a given
// range. Areas are stored per sheet in buckets of rows; areas spanning too
// many buckets are kept in a separate list scanned on each query.
type areaIndex struct {
	sheets map[string]*sheetIndex
}

type sheetIndex struct {
	buckets map[int64][]item
	wide    []item
}

func createIndex() *areaIndex {
	return &areaIndex{
		sheets: make(map[string]*sheetIndex),
	}
}

func (x *areaIndex) Add(n *Node, area layout.Range) {
	sx, ok := x.sheets[area.Sheet()]
	if !ok {
		sx = &sheetIndex{
			buckets: make(map[int64][]item),
		}
		x.sheets[area.Sheet()] = sx
	}
	it := item{
		area: area,
		node: n,
	}
	lo, hi := bucketsOf(area)
	if hi-lo >= maxBuckets {
		sx.wide = append(sx.wide, it)
		return
	}
	for b := lo; b <= hi; b++ {
		sx.buckets[b] = append(sx.buckets[b], it)
	}
}

func (x *areaIndex) Remove(n *Node, area layout.Range) {
	sx, ok := x.sheets[area.Sheet()]
	if !ok {
		return
	}
	drop := func(list []item) []item {
		for i := range list {
			if list[i].node == n && list[i].area == area {
				return append(list[:i], list[i+1:]...)
			}
		}
		return list
	}
	lo, hi := bucketsOf(area)
	if hi-lo >= maxBuckets {
		sx.wide = drop(sx.wide)
	} else {
		for b := lo; b <= hi; b++ {
			sx.buckets[b] = drop(sx.buckets[b])
			if len(sx.buckets[b]) == 0 {
				delete(sx.buckets, b)
			}
		}
	}
	if len(sx.buckets) == 0 && len(sx.wide) == 0 {
		delete(x.sheets, area.Sheet())
	}
}

// Query gives the nodes having an area intersecting the given range. Each
// node is given once, in no particular order.
func (x *areaIndex) Query(area layout.Range) []*Node {
	sx, ok := x.sheets[area.Sheet()]
	if !ok {
		return nil
	}
	var (
		list []*Node
		seen = make(map[*Node]struct{})
	)
	accept := func(it item) {
		if _, ok := seen[it.node]; ok || !it.area.Intersects(area) {
			return
		}
		seen[it.node] = struct{}{}
		list = append(list, it.node)
	}
	for _, it := range sx.wide {
		accept(it)
	}
	lo, hi := bucketsOf(area)
	if hi-lo >= int64(len(sx.buckets)) {
		for b, items := range sx.buckets {
			if b < lo || b > hi {
				continue
			}
			for _, it := range items {
				accept(it)
			}
		}
		return list
	}
	for b := lo; b <= hi; b++ {
		for _, it := range sx.buckets[b] {
			accept(it)
		}
	}
	return list
}

// Sheet gives every node having an area in the given sheet.
func (x *areaIndex) Sheet(name string) []*Node {
	sx, ok := x.sheets[name]
	if !ok {
		return nil
	}
	var (
		list []*Node
		seen = make(map[*Node]struct{})
	)
	accept := func(it item) {
		if _, ok := seen[it.node]; ok {
			return
		}
		seen[it.node] = struct{}{}
		list = append(list, it.node)
	}
	for _, it := range sx.wide {
		accept(it)
	}
	for _, items := range sx.buckets {
		for _, it := range items {
			accept(it)
		}
	}
	return list
}

func bucketsOf(area layout.Range) (int64, int64) {
	return (area.Starts.Line - 1) / bucketSize, (area.Ends.Line - 1) / bucketSize
}

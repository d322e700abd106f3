package assemble

import "github.com/dgallion1/doctrans/internal/doctree"

// ImageQueue hands out a page's images to its image blocks.
type ImageQueue struct {
	assets []doctree.ImageAsset
	used   []bool
	next   int
}

func NewImageQueue(assets []doctree.ImageAsset) *ImageQueue {
	return &ImageQueue{assets: assets, used: make([]bool, len(assets))}
}

// Take returns the unconsumed asset whose ID equals ref, or else the next
// unconsumed asset in listed order. It returns false once every asset is
// consumed.
func (q *ImageQueue) Take(ref string) (doctree.ImageAsset, bool) {
	if ref != "" {
		for i, a := range q.assets {
			if !q.used[i] && a.ID == ref {
				q.used[i] = true
				return a, true
			}
		}
	}
	for ; q.next < len(q.assets); q.next++ {
		if !q.used[q.next] {
			q.used[q.next] = true
			return q.assets[q.next], true
		}
	}
	return doctree.ImageAsset{}, false
}

// Remaining reports how many assets have not been taken.
func (q *ImageQueue) Remaining() int {
	n := 0
	for _, u := range q.used {
		if !u {
			n++
		}
	}
	return n
}

package extract

import (
	"sort"

	"github.com/dgallion1/doctrans/internal/doctree"
)

// Sequence orders blocks top to bottom by their anchor. Ties keep their
// extraction order and unanchored blocks go last. Columns are not
// detected: a two-column page interleaves its columns by height.
func Sequence(blocks []doctree.Block) []doctree.Block {
	out := make([]doctree.Block, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Anchor() < out[j].Anchor()
	})
	return out
}

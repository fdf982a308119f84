package main

import (
	"fmt"

	"github.com/bobboyms/latchtree/pkg/arena"
	"github.com/bobboyms/latchtree/pkg/treemap"
	"github.com/bobboyms/latchtree/pkg/treemap/avl"
	"github.com/bobboyms/latchtree/pkg/treemap/bst"
)

// shapedTree is treemap.Map plus the Shape accessor both variants expose,
// used for the post-run summary without a second interface-assertion
// dance at every call site.
type shapedTree interface {
	treemap.Map[struct{}]
	Shape() (liveKeys int, height int32)
}

// newTree builds a tree of the requested variant. poolSize > 0 routes node
// allocation through a pkg/arena pool (see config.Run.PoolSize) instead of
// plain new(), so the harness is the thing that actually drives arena's
// retire/reclaim/recycle cycle under real concurrent load.
func newTree(variant string, poolSize int) (shapedTree, error) {
	switch variant {
	case "bst":
		var opts []bst.Option[struct{}]
		if poolSize > 0 {
			opts = append(opts, bst.WithArena(arena.New[bst.Node[struct{}]](poolSize)))
		}
		return bst.New[struct{}](opts...), nil
	case "avl":
		var opts []avl.Option[struct{}]
		if poolSize > 0 {
			opts = append(opts, avl.WithArena(arena.New[avl.Node[struct{}]](poolSize)))
		}
		return avl.New[struct{}](opts...), nil
	default:
		return nil, fmt.Errorf("unknown variant %q (want bst or avl)", variant)
	}
}

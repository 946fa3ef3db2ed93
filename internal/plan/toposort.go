package plan

import (
	"container/heap"
	"errors"
	"fmt"
)

var errCycle = errors.New("base type cycle")

// noParent marks a node without a generated base.
const noParent = -1

// orderBaseFirst orders nodes 0..n-1 so that every node follows its parent.
// parent(i) returns the index of the node i derives from, or noParent.
//
// Among the nodes whose parent is already placed the smallest index goes
// first, so input sorted by identity keeps that order wherever the hierarchy
// allows it.
func orderBaseFirst(n int, parent func(i int) int) ([]int, error) {
	children := make([][]int, n)
	ready := &indexHeap{}

	for i := range n {
		p := parent(i)

		switch {
		case p == noParent:
			heap.Push(ready, i)
		case p < 0 || p >= n:
			return nil, fmt.Errorf("node %d: parent %d out of range", i, p)
		default:
			children[p] = append(children[p], i)
		}
	}

	order := make([]int, 0, n)

	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		order = append(order, i)

		for _, c := range children[i] {
			heap.Push(ready, c)
		}
	}

	if len(order) != n {
		return nil, errCycle
	}

	return order, nil
}

type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *indexHeap) Push(x any) { *h = append(*h, x.(int)) }

func (h *indexHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]

	return x
}

package huffman

import (
	"container/heap"
)

// huffmanHeap orders arena indices by weight, then by creation order.
type huffmanHeap struct {
	tree *Tree
	ids  []int
}

func (hub *huffmanHeap) Push(item any) {
	hub.ids = append(hub.ids, item.(int))
}

func (hub *huffmanHeap) Pop() any {
	popped := hub.ids[len(hub.ids)-1]
	hub.ids = hub.ids[:len(hub.ids)-1]
	return popped
}

func (hub *huffmanHeap) Len() int {
	return len(hub.ids)
}

func (hub *huffmanHeap) Less(i, j int) bool {
	wi, wj := hub.tree.Nodes[hub.ids[i]].Weight, hub.tree.Nodes[hub.ids[j]].Weight
	if wi != wj {
		return wi < wj
	}
	return hub.ids[i] < hub.ids[j]
}

func (hub *huffmanHeap) Swap(i, j int) {
	hub.ids[i], hub.ids[j] = hub.ids[j], hub.ids[i]
}

func (t *Tree) combineHeap(pending []int) int {
	treehub := &huffmanHeap{tree: t, ids: pending}
	heap.Init(treehub)
	for treehub.Len() > 1 {
		x := heap.Pop(treehub).(int)
		y := heap.Pop(treehub).(int)
		heap.Push(treehub, t.merge(x, y))
	}
	return heap.Pop(treehub).(int)
}

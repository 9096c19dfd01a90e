package ds

import (
	"maps"
	"slices"
)

type Node[T any] struct {
	name     string
	value    T
	setted   bool
	children map[string]*Node[T]
}

func createNode[T any](name string) *Node[T] {
	return &Node[T]{
		name:     name,
		children: make(map[string]*Node[T]),
	}
}

// Trie stores values under paths of names, such as the components of a
// dotted key.
type Trie[T any] struct {
	root *Node[T]
}

func NewTrie[T any]() *Trie[T] {
	trie := Trie[T]{
		root: createNode[T](""),
	}
	return &trie
}

func (t *Trie[T]) Get(path []string) (T, bool) {
	node := t.find(path)
	if node == nil {
		var z T
		return z, false
	}
	return node.value, node.setted
}

// Walk calls fn for every value registered under prefix, children visited
// in name order.
func (t *Trie[T]) Walk(prefix []string, fn func(path []string, v T)) {
	node := t.find(prefix)
	if node == nil {
		return
	}
	var walk func(n *Node[T], path []string)

	walk = func(n *Node[T], path []string) {
		if n.setted {
			fn(slices.Clone(path), n.value)
		}
		for _, name := range slices.Sorted(maps.Keys(n.children)) {
			walk(n.children[name], append(path, name))
		}
	}
	walk(node, slices.Clone(prefix))
}

func (t *Trie[T]) Register(path []string, value T) {
	if len(path) == 0 {
		return
	}
	node := t.root
	for _, name := range path {
		if node.children[name] == nil {
			node.children[name] = createNode[T](name)
		}
		node = node.children[name]
	}
	node.value = value
	node.setted = true
}

func (t *Trie[T]) find(path []string) *Node[T] {
	node := t.root
	for _, name := range path {
		n, ok := node.children[name]
		if !ok {
			return nil
		}
		node = n
	}
	return node
}

// Package store provides backing stores implementing mmr.Store.
package store

import "fmt"

// Memory is an in-memory mmr.Store keyed by position, grounded in the same
// map[uint64][]byte shape a unit test fixture would use. It is intended for
// tests and short-lived processes; nothing here survives process exit.
type Memory[T any] struct {
	nodes map[uint64]T
}

// NewMemory returns an empty in-memory store.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{nodes: make(map[uint64]T)}
}

// Get implements mmr.NodeReader.
func (m *Memory[T]) Get(pos uint64) (T, bool, error) {
	item, ok := m.nodes[pos]
	return item, ok, nil
}

// Append implements mmr.NodeWriter. Memory commits immediately, so Append
// and Commit are equally durable; Append is kept separate from Commit only
// to satisfy the interface other stores need a real staging phase for.
func (m *Memory[T]) Append(startPos uint64, items []T) error {
	for i, item := range items {
		m.nodes[startPos+uint64(i)] = item
	}
	return nil
}

// Commit implements mmr.NodeWriter as a no-op.
func (m *Memory[T]) Commit() error {
	return nil
}

// Len reports how many positions have been written, for test assertions.
func (m *Memory[T]) Len() int {
	return len(m.nodes)
}

func (m *Memory[T]) String() string {
	return fmt.Sprintf("store.Memory{%d nodes}", len(m.nodes))
}

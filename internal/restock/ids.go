package restock

type keyed interface {
	Key() int
}

// NextID returns one past the largest id in items, or 1 when items is empty.
// Ids are never reused as long as nothing assigns them out of band.
func NextID[T keyed](items []T) int {
	top := 0
	for _, it := range items {
		if k := it.Key(); k > top {
			top = k
		}
	}
	return top + 1
}

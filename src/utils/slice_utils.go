package utils

// ChunksOf splits a slice into consecutive chunks of at most size
// elements.
func ChunksOf[T any](items []T, size int) [][]T {
	var chunks [][]T
	for len(items) > 0 {
		n := MinInt(size, len(items))
		chunks = append(chunks, items[:n])
		items = items[n:]
	}
	return chunks
}

// DedupeBy removes duplicates from a slice, keeping the first item seen
// for each key.
func DedupeBy[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]bool, len(items))
	var out []T
	for _, item := range items {
		k := key(item)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, item)
	}
	return out
}

// Move relocates the item at index from to index to, shifting the items
// in between. The target index is interpreted against the slice with the
// item already removed; out-of-range targets clamp to the ends.
func Move[T any](list []T, from, to int) {
	item := list[from]
	copy(list[from:], list[from+1:])
	rest := list[:len(list)-1]
	switch {
	case to >= len(rest):
		rest = append(rest, item)
	case to < 0:
		rest = append([]T{item}, rest...)
	default:
		rest = append(rest, item)
		copy(rest[to+1:], rest[to:])
		rest[to] = item
	}
	copy(list, rest)
}

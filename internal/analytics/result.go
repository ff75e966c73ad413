package analytics

// Result is either Empty or Computed(stats). An empty result resolves to the
// zero value of T, which every summary type defines as its "no data" shape.
type Result[T any] struct {
	stats    T
	computed bool
}

// Empty returns a result with no backing data.
func Empty[T any]() Result[T] {
	return Result[T]{}
}

// Computed wraps stats produced from at least one record.
func Computed[T any](stats T) Result[T] {
	return Result[T]{stats: stats, computed: true}
}

// IsEmpty reports whether no records contributed.
func (r Result[T]) IsEmpty() bool {
	return !r.computed
}

// Value returns the stats, or the zero summary for an empty result.
func (r Result[T]) Value() T {
	if !r.computed {
		var zero T
		return zero
	}
	return r.stats
}

// Mean accumulates a running average in insertion order.
type Mean struct {
	sum   float64
	count int
}

// Add records a value.
func (m *Mean) Add(v float64) {
	m.sum += v
	m.count++
}

// Count returns how many values were recorded.
func (m Mean) Count() int {
	return m.count
}

// Value returns the mean, 0 when nothing was recorded.
func (m Mean) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

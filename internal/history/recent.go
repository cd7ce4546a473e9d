package history

// Recent is a fixed-capacity ordered set, most recent first. Adding a value
// that is already present moves it to the front; adding a new value to a full
// set evicts the oldest one.
type Recent struct {
	capacity int
	items    []string
}

// NewRecent returns an empty set holding at most capacity values (minimum 1).
func NewRecent(capacity int) *Recent {
	if capacity < 1 {
		capacity = 1
	}
	return &Recent{capacity: capacity, items: make([]string, 0, capacity)}
}

// Add puts v at the front. It returns the evicted value, if any.
func (r *Recent) Add(v string) (evicted string, didEvict bool) {
	if idx := r.index(v); idx >= 0 {
		copy(r.items[1:idx+1], r.items[:idx])
		r.items[0] = v
		return "", false
	}
	if len(r.items) == r.capacity {
		evicted = r.items[len(r.items)-1]
		didEvict = true
		r.items = r.items[:len(r.items)-1]
	}
	r.items = append(r.items, "")
	copy(r.items[1:], r.items[:len(r.items)-1])
	r.items[0] = v
	return evicted, didEvict
}

// Values returns a copy of the values, most recent first.
func (r *Recent) Values() []string {
	return append([]string(nil), r.items...)
}

// Contains reports whether v is present.
func (r *Recent) Contains(v string) bool {
	return r.index(v) >= 0
}

// Len returns the number of values held.
func (r *Recent) Len() int { return len(r.items) }

// Cap returns the maximum number of values held.
func (r *Recent) Cap() int { return r.capacity }

func (r *Recent) index(v string) int {
	for i, item := range r.items {
		if item == v {
			return i
		}
	}
	return -1
}

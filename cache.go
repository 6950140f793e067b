package tetracam

// cached holds a lazily computed value alongside a validity flag. A zero cached is invalid.
type cached[T any] struct {
	value T
	valid bool
}

// get returns the cached value, calling compute first if the cache is invalid.
func (c *cached[T]) get(compute func() T) T {
	if !c.valid {
		c.value = compute()
		c.valid = true
	}
	return c.value
}

func (c *cached[T]) set(value T) {
	c.value = value
	c.valid = true
}

// peek returns the last stored value and whether it is still valid.
func (c *cached[T]) peek() (T, bool) {
	return c.value, c.valid
}

func (c *cached[T]) invalidate() {
	c.valid = false
}

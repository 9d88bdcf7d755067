package repository

// Option applies a configuration option to the MemoryCatalog.
type Option func(*MemoryCatalog)

// WithCapacity bounds the number of opportunities held. Zero or negative
// means unbounded.
func WithCapacity(n int) Option {
	return func(c *MemoryCatalog) {
		c.capacity = n
	}
}

package entity

type options struct {
	initialCapacity int
}

// Option configures an Index.
type Option func(*options)

// WithInitialCapacity pre-sizes the lookup maps and slot tables for n
// entities.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialCapacity = n
		}
	}
}

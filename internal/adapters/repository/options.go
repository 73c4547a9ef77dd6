package repository

// StoreOption applies a configuration option to the MemStore.
type StoreOption func(*MemStore)

// WithMaxKept bounds how many analyses the store retains before evicting
// the oldest.
func WithMaxKept(n int) StoreOption {
	return func(s *MemStore) {
		if n > 0 {
			s.maxKept = n
		}
	}
}

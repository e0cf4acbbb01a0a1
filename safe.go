package mempool

import "sync"

// SafePool is a mutex-protected wrapper around Pool for concurrent access.
// All operations are thread-safe but come with the overhead of mutex locking.
type SafePool[T any] struct {
	mu sync.Mutex
	p  *Pool[T]
}

// NewSafePool creates a new thread-safe pool. Arguments are as for NewPool.
func NewSafePool[T any](blockSize int, opts ...Option) (*SafePool[T], error) {
	p, err := NewPool[T](blockSize, opts...)
	if err != nil {
		return nil, err
	}
	return &SafePool[T]{p: p}, nil
}

// Guard wraps an existing pool. The caller must stop using p directly.
func Guard[T any](p *Pool[T]) *SafePool[T] {
	return &SafePool[T]{p: p}
}

// Alloc thread-safely returns uninitialized storage for one T.
func (s *SafePool[T]) Alloc() (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Alloc()
}

// Dealloc thread-safely returns ptr's slot to the free list.
func (s *SafePool[T]) Dealloc(ptr *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Dealloc(ptr)
}

// New thread-safely allocates a slot and constructs v in it.
func (s *SafePool[T]) New(v T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.New(v)
}

// NewFunc thread-safely allocates a slot and initializes it with init.
// init runs with the pool locked and must not call back into s.
func (s *SafePool[T]) NewFunc(init func(*T)) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.NewFunc(init)
}

// Delete thread-safely destroys the element at ptr and frees its slot.
func (s *SafePool[T]) Delete(ptr *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Delete(ptr)
}

// Release thread-safely returns every block to the source.
func (s *SafePool[T]) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Release()
}

// Metrics thread-safely returns a snapshot of pool statistics.
func (s *SafePool[T]) Metrics() PoolMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Metrics()
}

// InUse thread-safely returns the number of slots currently handed out.
func (s *SafePool[T]) InUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.InUse()
}

// NumBlocks thread-safely returns the number of blocks owned by the pool.
func (s *SafePool[T]) NumBlocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.NumBlocks()
}

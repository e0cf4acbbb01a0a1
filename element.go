package mempool

// Destroyer is implemented by element types that must run teardown logic
// before their slot is reused. Destroy calls it on *T when present.
type Destroyer interface {
	Destroy()
}

// Address returns the address of v. It exists for symmetry with Construct
// and Destroy and performs no checks.
func (p *Pool[T]) Address(v *T) *T {
	return v
}

// Construct initializes the raw storage at ptr with v.
func (p *Pool[T]) Construct(ptr *T, v T) {
	*ptr = v
}

// ConstructFunc zeroes the raw storage at ptr and, if init is non-nil,
// runs init on it.
func (p *Pool[T]) ConstructFunc(ptr *T, init func(*T)) {
	var zero T
	*ptr = zero
	if init != nil {
		init(ptr)
	}
}

// Destroy runs the element's teardown, if T implements Destroyer through
// its pointer, and zeroes it. The storage stays allocated.
func (p *Pool[T]) Destroy(ptr *T) {
	if d, ok := any(ptr).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	*ptr = zero
}

// New allocates a slot and constructs v in it.
func (p *Pool[T]) New(v T) (*T, error) {
	ptr, err := p.Alloc()
	if err != nil {
		return nil, err
	}
	p.Construct(ptr, v)
	return ptr, nil
}

// NewFunc allocates a slot and initializes it with ConstructFunc.
func (p *Pool[T]) NewFunc(init func(*T)) (*T, error) {
	ptr, err := p.Alloc()
	if err != nil {
		return nil, err
	}
	p.ConstructFunc(ptr, init)
	return ptr, nil
}

// Delete destroys the element at ptr and returns its slot to the pool.
// A nil ptr is a no-op.
func (p *Pool[T]) Delete(ptr *T) {
	if ptr == nil {
		return
	}
	p.Destroy(ptr)
	p.Dealloc(ptr)
}

package mempool

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSafePool(t *testing.T) {
	s, err := NewSafePool[int64](1024)
	require.NoError(t, err)
	require.NotNil(t, s.p)

	_, err = NewSafePool[[]int64](1024)
	require.ErrorIs(t, err, ErrPointerElement)
}

func TestSafePoolOperations(t *testing.T) {
	s, err := NewSafePool[testStruct](1024)
	require.NoError(t, err)

	a, err := s.Alloc()
	require.NoError(t, err)
	b, err := s.New(testStruct{a: 7})
	require.NoError(t, err)
	c, err := s.NewFunc(func(v *testStruct) { v.b = 3 })
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.a)
	assert.Equal(t, int32(3), c.b)
	assert.Equal(t, 3, s.InUse())
	assert.Equal(t, 1, s.NumBlocks())

	s.Dealloc(a)
	s.Delete(b)
	s.Delete(nil)
	s.Dealloc(nil)
	m := s.Metrics()
	assert.Equal(t, 1, m.InUse)
	assert.Equal(t, 2, m.FreeSlots)

	s.Release()
	assert.Zero(t, s.NumBlocks())
}

func TestGuard(t *testing.T) {
	p := MustNewPool[int32](256)
	v, err := p.New(1)
	require.NoError(t, err)

	s := Guard(p)
	defer s.Release()
	assert.Equal(t, 1, s.InUse())
	s.Delete(v)
	assert.Zero(t, s.InUse())
}

func TestSafePoolConcurrentAccess(t *testing.T) {
	s, err := NewSafePool[[4]int64](4096)
	require.NoError(t, err)
	defer s.Release()

	const numWorkers = 8
	const perWorker = 500

	var mu sync.Mutex
	live := make(map[uintptr]int)
	var wg sync.WaitGroup
	errs := make(chan error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var mine []*[4]int64
			for i := 0; i < perWorker; i++ {
				v, err := s.New([4]int64{int64(id), int64(i)})
				if err != nil {
					errs <- err
					return
				}
				mu.Lock()
				if owner, ok := live[uintptr(unsafe.Pointer(v))]; ok {
					t.Errorf("worker %d got slot owned by worker %d", id, owner)
				}
				live[uintptr(unsafe.Pointer(v))] = id
				mu.Unlock()
				mine = append(mine, v)

				// Free every third element to mix in reuse.
				if i%3 == 2 {
					old := mine[0]
					mine = mine[1:]
					if old[0] != int64(id) {
						t.Errorf("worker %d: element overwritten: %v", id, *old)
					}
					mu.Lock()
					delete(live, uintptr(unsafe.Pointer(old)))
					mu.Unlock()
					s.Delete(old)
				}
			}
			for _, v := range mine {
				if v[0] != int64(id) {
					t.Errorf("worker %d: element overwritten: %v", id, *v)
				}
				mu.Lock()
				delete(live, uintptr(unsafe.Pointer(v)))
				mu.Unlock()
				s.Delete(v)
			}
		}(w)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	assert.Zero(t, s.InUse())
	assert.Empty(t, live)
}

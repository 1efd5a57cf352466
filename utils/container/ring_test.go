package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/container"
)

func TestRingInit(t *testing.T) {
	r := container.NewRing[int](4)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 4, r.Cap())
	assert.Equal(t, 4, r.Free())
	_, ok := r.Front()
	assert.False(t, ok)
	_, ok = r.PopFront()
	assert.False(t, ok)
}

func TestRingPushPop(t *testing.T) {
	r := container.NewRing[int](3)

	// test: fill to capacity

	assert.True(t, r.PushBack(1))
	assert.True(t, r.PushBack(2))
	assert.True(t, r.PushBack(3))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 0, r.Free())

	// test: push to full ring is rejected without side effects

	assert.False(t, r.PushBack(4))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{1, 2, 3}, r.Values())

	// test: FIFO order

	v, ok := r.PopFront()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	front, ok := r.Front()
	assert.True(t, ok)
	assert.Equal(t, 2, front)
	back, ok := r.Back()
	assert.True(t, ok)
	assert.Equal(t, 3, back)
}

func TestRingWrapAround(t *testing.T) {
	r := container.NewRing[int](3)
	// interleave push/pop so head walks past the end of the backing array
	for i := 0; i < 10; i++ {
		assert.True(t, r.PushBack(i))
		v, ok := r.PopFront()
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, r.Len())

	assert.True(t, r.PushBack(10))
	assert.True(t, r.PushBack(11))
	assert.Equal(t, []int{10, 11}, r.Values())
	assert.Equal(t, 11, r.At(1))
}

func TestRingClear(t *testing.T) {
	r := container.NewRing[int](3)
	r.PushBack(1)
	r.PushBack(2)
	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 3, r.Free())
	assert.True(t, r.PushBack(9))
	v, _ := r.Front()
	assert.Equal(t, 9, v)
}

func TestRingCapacityInvariant(t *testing.T) {
	r := container.NewRing[int](5)
	for i := 0; i < 100; i++ {
		r.PushBack(i)
		assert.LessOrEqual(t, r.Len(), r.Cap())
	}
	assert.Equal(t, 5, r.Len())
}

package htable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritableStore(t *testing.T) {
	s := NewWritable(1)
	assert.Equal(t, 1, s.Get())

	var seen []int
	unsubscribe := s.Subscribe(func(v int) { seen = append(seen, v) })

	s.Set(2)
	s.Update(func(v int) int { return v + 10 })
	assert.Equal(t, 12, s.Get())
	assert.Equal(t, []int{2, 12}, seen)

	unsubscribe()
	s.Set(99)
	assert.Equal(t, []int{2, 12}, seen, "unsubscribed stores must not be notified")
}

func TestWritableStoreUnsubscribeDuringNotify(t *testing.T) {
	s := NewWritable(0)
	var unsubscribe func()
	first := 0
	second := 0
	unsubscribe = s.Subscribe(func(int) {
		first++
		unsubscribe()
	})
	s.Subscribe(func(int) { second++ })

	s.Set(1)
	s.Set(2)
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second, "later subscribers must still be notified")
}

func TestDerive(t *testing.T) {
	source := NewWritable(2)
	doubled := Derive(source, func(v int) int { return v * 2 })
	assert.Equal(t, 4, doubled.Get())

	var seen []int
	doubled.Subscribe(func(v int) { seen = append(seen, v) })

	source.Set(5)
	assert.Equal(t, 10, doubled.Get())
	assert.Equal(t, []int{10}, seen)
}

func TestDerive2(t *testing.T) {
	a := NewWritable(1)
	b := NewWritable("x")
	combined := Derive2(a, b, func(n int, s string) string {
		return s + "-" + string(rune('0'+n))
	})
	require.Equal(t, "x-1", combined.Get())

	a.Set(2)
	assert.Equal(t, "x-2", combined.Get())
	b.Set("y")
	assert.Equal(t, "y-2", combined.Get())
}

func TestDeriveChain(t *testing.T) {
	source := NewWritable(1)
	stage1 := Derive(source, func(v int) int { return v + 1 })
	stage2 := Derive(stage1, func(v int) int { return v * 10 })

	var seen []int
	stage2.Subscribe(func(v int) { seen = append(seen, v) })

	source.Set(4)
	assert.Equal(t, 50, stage2.Get())
	assert.Equal(t, []int{50}, seen, "each stage sees only the settled previous stage")
}

func TestDeriveAll(t *testing.T) {
	a := NewWritable(Props{"a": 1})
	b := NewWritable(Props{"b": 2})
	merged := DeriveAll([]Store[Props]{a, b}, mergeMaps[Props])
	assert.Equal(t, Props{"a": 1, "b": 2}, merged.Get())

	b.Set(Props{"a": 3})
	assert.Equal(t, Props{"a": 3}, merged.Get(), "later stores win key conflicts")
}

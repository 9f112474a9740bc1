package htable

// Store is a read-only reactive value container.
// Subscribers are notified synchronously whenever the held value changes.
//
// Stores are single-goroutine constructs: all reads, writes and
// notifications happen cooperatively on the goroutine driving the table.
type Store[T any] interface {
	// Get returns the currently held value.
	Get() T
	// Subscribe registers fn to be called on every value change.
	// It returns a function that removes the subscription.
	Subscribe(fn func(T)) (unsubscribe func())
}

// WritableStore is a Store that can be written from the outside.
// Values must be replaced, never mutated in place, so that
// subscribers reliably observe every change.
type WritableStore[T any] interface {
	Store[T]
	Set(value T)
	Update(fn func(T) T)
}

// NewWritable returns a WritableStore holding initial.
func NewWritable[T any](initial T) WritableStore[T] {
	return &writable[T]{value: initial}
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

type writable[T any] struct {
	value       T
	nextID      int
	subscribers []subscriber[T]
}

func (w *writable[T]) Get() T { return w.value }

func (w *writable[T]) Set(value T) {
	w.value = value
	// Iterate over a snapshot so unsubscribing during
	// notification does not skip subscribers.
	subs := w.subscribers
	for _, sub := range subs {
		sub.fn(value)
	}
}

func (w *writable[T]) Update(fn func(T) T) {
	w.Set(fn(w.value))
}

func (w *writable[T]) Subscribe(fn func(T)) func() {
	id := w.nextID
	w.nextID++
	w.subscribers = append(w.subscribers, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, sub := range w.subscribers {
			if sub.id == id {
				w.subscribers = append(w.subscribers[:i:i], w.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Derive returns a Store whose value is fn applied to the source value,
// recomputed synchronously whenever the source changes.
func Derive[A, B any](source Store[A], fn func(A) B) Store[B] {
	d := &writable[B]{value: fn(source.Get())}
	source.Subscribe(func(a A) {
		d.Set(fn(a))
	})
	return d
}

// Derive2 returns a Store recomputed from two sources whenever
// either of them changes. The derivation re-reads both sources at
// recomputation time, so it always sees their settled values.
func Derive2[A, B, C any](a Store[A], b Store[B], fn func(A, B) C) Store[C] {
	d := &writable[C]{value: fn(a.Get(), b.Get())}
	recompute := func() { d.Set(fn(a.Get(), b.Get())) }
	a.Subscribe(func(A) { recompute() })
	b.Subscribe(func(B) { recompute() })
	return d
}

// DeriveAll returns a Store recomputed from a homogeneous list of
// sources whenever any of them changes.
func DeriveAll[A, B any](sources []Store[A], fn func([]A) B) Store[B] {
	values := func() []A {
		vs := make([]A, len(sources))
		for i, s := range sources {
			vs[i] = s.Get()
		}
		return vs
	}
	d := &writable[B]{value: fn(values())}
	for _, s := range sources {
		s.Subscribe(func(A) { d.Set(fn(values())) })
	}
	return d
}

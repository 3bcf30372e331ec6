package table

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/charmbracelet/log"
)

const (
	// InitialCapacity is the number of buckets a new table starts with.
	InitialCapacity = 16
	// LoadThreshold is the size/capacity ratio above which a table grows.
	LoadThreshold = 0.75
	// ResizeFactor is the capacity multiplier applied on each rehash.
	ResizeFactor = 2
)

var (
	// ErrKeyNotFound is the panic value cause when Get is called for a key
	// the table does not hold.
	ErrKeyNotFound = errors.New("table: key not found")
	// ErrDestroyed is the panic value cause when a destroyed table is used.
	ErrDestroyed = errors.New("table: use of destroyed table")
	// ErrNilBehavior is the panic value cause when New is missing a required
	// hash, equal or print function.
	ErrNilBehavior = errors.New("table: nil behavior")
	// ErrUninitialized is the panic value cause when a Table that was not
	// created by New is used.
	ErrUninitialized = errors.New("table: use of uninitialized table, create it with New")
)

// HashFunc computes the hash code of a key.
type HashFunc[K any] func(key K) uint64

// EqualFunc reports whether two keys are the same key.
type EqualFunc[K any] func(a, b K) bool

// PrintFunc writes a single (key, value) pair. It is used by Dump.
type PrintFunc[K, V any] func(w io.Writer, key K, value V)

// DeleteFunc releases a (key, value) pair owned by the table. It is used by
// Destroy.
type DeleteFunc[K, V any] func(key K, value V)

// Stats is a snapshot of a table's counters.
type Stats struct {
	Size       int `json:"size" yaml:"size"`
	Capacity   int `json:"capacity" yaml:"capacity"`
	Collisions int `json:"collisions" yaml:"collisions"`
	Rehashes   int `json:"rehashes" yaml:"rehashes"`
}

type entry[K, V any] struct {
	key   K
	value V
}

// Table is a generic hash table using separate chaining. It owns every key
// and value passed to Put until Destroy hands them to the delete function.
//
// Only New produces a usable Table; the zero value panics with
// ErrUninitialized. A Table is not safe for concurrent use.
type Table[K, V any] struct {
	buckets    [][]*entry[K, V]
	destroyed  bool
	size       int
	collisions int
	rehashes   int

	hash   HashFunc[K]
	equal  EqualFunc[K]
	print  PrintFunc[K, V]
	delete DeleteFunc[K, V]

	logger *log.Logger
}

// New creates an empty table with InitialCapacity buckets.
//
// hash, equal and print are required; New panics if any of them is nil.
// del may be nil, in which case Destroy performs no cleanup of entries.
func New[K, V any](hash HashFunc[K], equal EqualFunc[K], print PrintFunc[K, V], del DeleteFunc[K, V], opts ...Option) *Table[K, V] {
	switch {
	case hash == nil:
		panic(fmt.Errorf("%w: hash", ErrNilBehavior))
	case equal == nil:
		panic(fmt.Errorf("%w: equal", ErrNilBehavior))
	case print == nil:
		panic(fmt.Errorf("%w: print", ErrNilBehavior))
	}

	o := options{logger: discardLogger}
	for _, opt := range opts {
		opt(&o)
	}

	return &Table[K, V]{
		buckets: make([][]*entry[K, V], InitialCapacity),
		hash:    hash,
		equal:   equal,
		print:   print,
		delete:  del,
		logger:  o.logger,
	}
}

// Put adds a (key, value) pair or updates the value of an existing key.
//
// When the key is already present its value is replaced and the previous
// value is returned with replaced set to true; ownership of that value
// passes back to the caller and the stored key is kept. Otherwise the zero
// V and false are returned.
func (t *Table[K, V]) Put(key K, value V) (old V, replaced bool) {
	t.mustBeLive()

	idx := t.index(key, len(t.buckets))
	bucket := t.buckets[idx]
	if i := t.lookup(bucket, key); i >= 0 {
		old = bucket[i].value
		bucket[i].value = value
		return old, true
	}

	if len(bucket) > 0 {
		t.collisions++
	}
	t.buckets[idx] = append(bucket, &entry[K, V]{key: key, value: value})
	t.size++

	if float64(t.size)/float64(len(t.buckets)) > LoadThreshold {
		t.rehash()
	}
	return old, false
}

// Get returns the value stored for key.
//
// The caller must know the key is present; Get panics with an error wrapping
// ErrKeyNotFound otherwise. Use Lookup when absence is a normal outcome.
func (t *Table[K, V]) Get(key K) V {
	v, ok := t.Lookup(key)
	if !ok {
		panic(fmt.Errorf("%w: %v", ErrKeyNotFound, key))
	}
	return v
}

// Lookup returns the value stored for key and whether it was found.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	t.mustBeLive()

	bucket := t.buckets[t.index(key, len(t.buckets))]
	if i := t.lookup(bucket, key); i >= 0 {
		return bucket[i].value, true
	}
	var zero V
	return zero, false
}

// Has reports whether the table holds key.
func (t *Table[K, V]) Has(key K) bool {
	_, ok := t.Lookup(key)
	return ok
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	t.mustBeLive()
	return t.size
}

// Cap returns the number of buckets.
func (t *Table[K, V]) Cap() int {
	t.mustBeLive()
	return len(t.buckets)
}

// Stats returns the current counters.
func (t *Table[K, V]) Stats() Stats {
	t.mustBeLive()
	return Stats{
		Size:       t.size,
		Capacity:   len(t.buckets),
		Collisions: t.collisions,
		Rehashes:   t.rehashes,
	}
}

// Keys returns a new slice holding every key in traversal order. The slice
// belongs to the caller; the keys themselves remain owned by the table.
func (t *Table[K, V]) Keys() []K {
	t.mustBeLive()
	keys := make([]K, 0, t.size)
	for k := range t.All() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns a new slice holding every value in traversal order.
func (t *Table[K, V]) Values() []V {
	t.mustBeLive()
	values := make([]V, 0, t.size)
	for _, v := range t.All() {
		values = append(values, v)
	}
	return values
}

// All returns an iterator over the entries in traversal order: buckets in
// index order, then insertion order within a bucket. The table must not be
// modified during iteration.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	t.mustBeLive()
	return func(yield func(K, V) bool) {
		for _, bucket := range t.buckets {
			for _, e := range bucket {
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}

// Dump writes the table statistics to w. If full is true every entry is
// also written, one per line, using the print function.
func (t *Table[K, V]) Dump(w io.Writer, full bool) {
	s := t.Stats()
	fmt.Fprintf(w, "Size: %d\n", s.Size)
	fmt.Fprintf(w, "Capacity: %d\n", s.Capacity)
	fmt.Fprintf(w, "Collisions: %d\n", s.Collisions)
	fmt.Fprintf(w, "Rehashes: %d\n", s.Rehashes)

	if !full {
		return
	}
	for i, bucket := range t.buckets {
		for _, e := range bucket {
			fmt.Fprintf(w, "%d: ", i)
			t.print(w, e.key, e.value)
			fmt.Fprintln(w)
		}
	}
}

// Destroy hands every entry to the delete function, if one was registered,
// and releases the bucket storage. The table must not be used afterwards.
func (t *Table[K, V]) Destroy() {
	t.mustBeLive()

	if t.delete != nil {
		for _, bucket := range t.buckets {
			for _, e := range bucket {
				t.delete(e.key, e.value)
			}
		}
	}
	t.buckets = nil
	t.size = 0
	t.destroyed = true
}

// rehash grows the bucket array by ResizeFactor and moves every entry to its
// new bucket. The old array is only dropped once all entries are placed.
func (t *Table[K, V]) rehash() {
	newCap := len(t.buckets) * ResizeFactor
	t.logger.Debug("rehash", "from", len(t.buckets), "to", newCap, "size", t.size)

	buckets := make([][]*entry[K, V], newCap)
	for _, bucket := range t.buckets {
		for _, e := range bucket {
			idx := t.index(e.key, newCap)
			buckets[idx] = append(buckets[idx], e)
		}
	}

	t.buckets = buckets
	t.rehashes++
}

func (t *Table[K, V]) index(key K, capacity int) int {
	return int(t.hash(key) % uint64(capacity))
}

func (t *Table[K, V]) lookup(bucket []*entry[K, V], key K) int {
	for i, e := range bucket {
		if t.equal(e.key, key) {
			return i
		}
	}
	return -1
}

func (t *Table[K, V]) mustBeLive() {
	switch {
	case t.destroyed:
		panic(ErrDestroyed)
	case t.buckets == nil:
		panic(ErrUninitialized)
	}
}

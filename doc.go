/*
Package table provides a generic, resizable hash table that owns the keys and
values stored in it.

A Table is parameterized by a key and a value type and by four behaviors
supplied when it is created: a hash function, an equality function, a print
function used by Dump and an optional delete function used by Destroy.

Basic usage:

	import "github.com/theflywheel/table"

	t := table.New(table.StringHash, table.Equal[string],
		table.FormatPrint[string, int], nil)
	defer t.Destroy()

	t.Put("ten", 10)
	t.Put("twenty", 20)

	if t.Has("ten") {
		fmt.Println(t.Get("ten")) // 10
	}

	old, replaced := t.Put("ten", 99) // 10, true
	_, _ = old, replaced

	t.Dump(os.Stdout, true)

Ownership:

  - Put takes ownership of the key and the value.
  - Updating an existing key keeps the stored key and returns the displaced
    value; the caller owns it from then on and the delete function is never
    called for it.
  - Keys and Values return fresh slices owned by the caller. The elements are
    the table's own keys and values, not copies.
  - Destroy calls the delete function once per remaining entry. There is no
    removal; entries live until the table is destroyed.

Contract breaches panic: Get on a missing key (ErrKeyNotFound), any use of a
destroyed table (ErrDestroyed) and New without a hash, equal or print
function (ErrNilBehavior). Lookup is the non-panicking form of Get.

Implementation Details:

Collisions are resolved by separate chaining. A key lives in bucket
hash(key) mod capacity. The table starts with 16 buckets; when an insertion
pushes size/capacity above 0.75 the bucket array is doubled and every entry
is moved to its new bucket. The number of insertions that landed in a
non-empty bucket and the number of rehashes are kept for Stats and Dump.

A Table is not safe for concurrent use.
*/
package table

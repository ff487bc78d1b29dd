// Package key hands out identifiers for document nodes. Keys stay stable
// across snapshots and never depend on a node's position in the tree.
package key

import (
	"strconv"
	"sync/atomic"
)

// Key identifies a node or text run. The zero value means "no key".
type Key string

var counter atomic.Uint64

// Generate returns a key that has never been returned before in this process.
func Generate() Key {
	return Key(strconv.FormatUint(counter.Add(1), 10))
}

// Observe advances the counter past k when k is numeric, so keys decoded from
// persisted state cannot collide with keys generated afterwards.
func Observe(k Key) {
	n, err := strconv.ParseUint(string(k), 10, 64)
	if err != nil {
		return
	}
	for {
		cur := counter.Load()
		if cur >= n || counter.CompareAndSwap(cur, n) {
			return
		}
	}
}

func (k Key) String() string { return string(k) }

// IsZero reports whether k is empty.
func (k Key) IsZero() bool { return k == "" }

package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/iw2rmb/inkwell/key"
)

// ErrInvalidOffsetKey is returned for attribute values that are not
// "key" or "key:index".
var ErrInvalidOffsetKey = errors.New("invalid offset key")

// OffsetKey identifies one leaf run of a text node.
type OffsetKey struct {
	Key   key.Key
	Index int
}

func (o OffsetKey) String() string { return fmt.Sprintf("%s:%d", o.Key, o.Index) }

// ParseOffsetKey parses "key:index". The index may be omitted, in which
// case it is zero. Keys are restricted to word characters.
func ParseOffsetKey(s string) (OffsetKey, error) {
	k, idx, hasIdx := strings.Cut(s, ":")
	if k == "" || !isWord(k) {
		return OffsetKey{}, fmt.Errorf("%w: %q", ErrInvalidOffsetKey, s)
	}
	out := OffsetKey{Key: key.Key(k)}
	if !hasIdx {
		return out, nil
	}
	if idx == "" || strings.TrimLeft(idx, "0123456789") != "" {
		return OffsetKey{}, fmt.Errorf("%w: %q", ErrInvalidOffsetKey, s)
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return OffsetKey{}, fmt.Errorf("%w: %q: %v", ErrInvalidOffsetKey, s, err)
	}
	out.Index = n
	return out, nil
}

func isWord(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

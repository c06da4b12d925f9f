package reactive

import (
	"fmt"
	"strings"
)

// ParsePath turns a dotted path like "a.b.c" into a getter over nested
// keyed containers. Bracket syntax is not supported; only watch simple
// dot-delimited paths, or use a getter function instead.
func ParsePath(path string) (func(root any) any, error) {
	for _, r := range path {
		if !isPathRune(r) {
			return nil, fmt.Errorf("invalid watch path %q: only dot-delimited paths are supported", path)
		}
	}
	segments := strings.Split(path, ".")
	return func(root any) any {
		cur := root
		for _, seg := range segments {
			if cur == nil {
				return nil
			}
			reader, ok := cur.(KeyedReader)
			if !ok {
				return nil
			}
			cur = reader.ReactiveGet(seg)
		}
		return cur
	}, nil
}

func isPathRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '$':
		return true
	default:
		return false
	}
}

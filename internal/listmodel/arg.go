package listmodel

type argKind int

const (
	argInvalid argKind = iota
	argOne
	argMany
	argIndex
)

func (k argKind) String() string {
	switch k {
	case argOne:
		return "item"
	case argMany:
		return "items"
	case argIndex:
		return "index"
	default:
		return "invalid"
	}
}

// Arg is one of the call shapes accepted by InsertArg and RemoveArg: a single
// item, a list of items or a row range. The zero value is invalid.
type Arg[T any] struct {
	kind  argKind
	item  T
	items []T
	index int
	count int
}

// One wraps a single item.
func One[T any](item T) Arg[T] {
	return Arg[T]{kind: argOne, item: item}
}

// Many wraps a list of items.
func Many[T any](items []T) Arg[T] {
	return Arg[T]{kind: argMany, items: items}
}

// Index wraps a single row.
func Index[T any](index int) Arg[T] {
	return Range[T](index, 1)
}

// Range wraps count rows starting at index.
func Range[T any](index, count int) Arg[T] {
	return Arg[T]{kind: argIndex, index: index, count: count}
}

// IsValid reports whether a was built by one of the constructors.
func (a Arg[T]) IsValid() bool {
	return a.kind != argInvalid
}

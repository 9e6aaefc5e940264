package cart

// Lifecycle tracks whether a cart has been hydrated from storage
type Lifecycle int

const (
	// Uninitialized carts must not be written to storage
	Uninitialized Lifecycle = iota
	// Ready carts persist every mutation
	Ready
)

func (l Lifecycle) String() string {
	switch l {
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

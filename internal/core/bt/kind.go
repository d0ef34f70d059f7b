package bt

// Kind classifies a process node. It is descriptive only and never changes
// how the engine ticks a node.
type Kind uint8

const (
	KindComposite Kind = iota + 1
	KindDecorator
	KindCondition
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindComposite:
		return "composite"
	case KindDecorator:
		return "decorator"
	case KindCondition:
		return "condition"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// Descriptor is the metadata attached to a process implementation when it is registered.
type Descriptor struct {
	Name        string
	Description string
	Kind        Kind
}

package typeprovider

// UnknownPolicy controls how unknown object keys are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                            // Drop unknown keys.
	UnknownPassthrough                      // Preserve unknown keys as-is.
)

// CheckerKind tags a compiled checker with its capabilities.
type CheckerKind int

const (
	// KindPlain checkers only check; decoding is the identity.
	KindPlain CheckerKind = iota
	// KindTransform checkers carry decode/encode functions somewhere in their tree.
	KindTransform
)

func (k CheckerKind) String() string {
	if k == KindTransform {
		return "transform"
	}
	return "plain"
}

package arch

// Check is an executable architecture assertion.
type Check interface {
	// Description states what the check requires, e.g. "types should not
	// import 'io/ioutil'".
	Description() string
	// Evaluate runs the check against u. A nil or empty result means the
	// check passed.
	Evaluate(u Universe) ([]Violation, error)
}

// NamedCheck pairs a check with the name it is selected by.
type NamedCheck struct {
	Name  string
	Check Check
}

type funcCheck struct {
	desc string
	fn   func(Universe) ([]Violation, error)
}

// NewCheck adapts a function into a Check.
func NewCheck(description string, fn func(Universe) ([]Violation, error)) Check {
	return &funcCheck{desc: description, fn: fn}
}

func (c *funcCheck) Description() string { return c.desc }

func (c *funcCheck) Evaluate(u Universe) ([]Violation, error) {
	return c.fn(u)
}

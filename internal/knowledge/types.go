package knowledge

// Result is the three-valued answer to a query, plus Invalid for questions
// that could not be parsed. The resolver never produces Invalid itself.
type Result int

const (
	DontKnow Result = iota
	Yes
	No
	Invalid
)

func (r Result) String() string {
	switch r {
	case Yes:
		return "YES"
	case No:
		return "NO"
	case DontKnow:
		return "DONT_KNOW"
	case Invalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Operation names one of the three query kinds.
type Operation string

const (
	OpInstanceOf   Operation = "instance_of"
	OpSubclassOf   Operation = "subclass_of"
	OpHasAttribute Operation = "has_attribute"
)

// Querier answers the three query kinds by entity name.
type Querier interface {
	IsInstanceOf(query, target string) Result
	IsSubclassOf(query, target string) Result
	HasAttribute(query, attribute string) Result
}

package fsops

// Outcome classifies the result of a bulk transfer. It is deliberately
// three-valued: a transfer that finished without failures but copied
// nothing new is not an error.
type Outcome int

const (
	// OutcomeComplete means content was copied with no failures.
	OutcomeComplete Outcome = iota
	// OutcomePartial means the transfer finished without failures but
	// copied nothing, typically because the content was already present.
	OutcomePartial
	// OutcomeFailed means the transfer encountered failures.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomePartial:
		return "partial"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

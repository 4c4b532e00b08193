package enums

// OrderOutcome is how an order-keyed operation resolved.
type OrderOutcome string

const (
	OrderOutcomeApplied   OrderOutcome = "applied"
	OrderOutcomeDuplicate OrderOutcome = "duplicate"
	OrderOutcomeSkipped   OrderOutcome = "skipped"
	OrderOutcomeRejected  OrderOutcome = "rejected"
	OrderOutcomeFailed    OrderOutcome = "failed"
)

// String implements fmt.Stringer.
func (o OrderOutcome) String() string {
	return string(o)
}

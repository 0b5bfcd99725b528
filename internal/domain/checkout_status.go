package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle       CheckoutStatus = "idle"
	CheckoutStatusCollecting CheckoutStatus = "collecting"
	CheckoutStatusProcessing CheckoutStatus = "processing"
	CheckoutStatusSucceeded  CheckoutStatus = "succeeded"
	CheckoutStatusFailed     CheckoutStatus = "failed"
)

var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle:       {CheckoutStatusCollecting},
	CheckoutStatusCollecting: {CheckoutStatusProcessing, CheckoutStatusIdle},
	CheckoutStatusProcessing: {CheckoutStatusSucceeded, CheckoutStatusFailed, CheckoutStatusIdle},
	CheckoutStatusSucceeded:  {CheckoutStatusIdle},
	CheckoutStatusFailed:     {CheckoutStatusCollecting, CheckoutStatusIdle},
}

// CanTransitionTo reports whether the checkout state machine allows moving
// from s to next.
func (s CheckoutStatus) CanTransitionTo(next CheckoutStatus) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusSucceeded || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

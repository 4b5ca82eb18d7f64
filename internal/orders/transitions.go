package orders

import "github.com/yeezuz2020/store-api/pkg/enums"

// statusRank orders the fulfillment lifecycle. Manual transitions may only
// move forward along this ranking; cancellation is reachable from any
// non-terminal state.
var statusRank = map[enums.OrderStatus]int{
	enums.OrderStatusPending:    0,
	enums.OrderStatusConfirmed:  1,
	enums.OrderStatusPaid:       2,
	enums.OrderStatusProcessing: 3,
	enums.OrderStatusShipped:    4,
	enums.OrderStatusDelivered:  5,
}

// CanTransition reports whether a manual move from one status to another is
// allowed. Terminal states (delivered, cancelled) accept no further moves.
func CanTransition(from, to enums.OrderStatus) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if to == enums.OrderStatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

package orders

import "github.com/Amanda2455/ecommerce-microservices-fullstack/pkg/enums"

// orderTransitions is the full transition table. Statuses absent from the
// map are terminal.
var orderTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:  {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusReturned},
	enums.OrderStatusDelivered:  {enums.OrderStatusReturned},
}

// CanTransition reports whether the state machine allows moving the order
// from one status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

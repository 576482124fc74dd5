package service

// Notifier pushes domain events to a user's connected sessions so a cart
// changed in one browser shows up in the others. Implemented by the
// websocket hub; a nil Notifier disables pushes.
type Notifier interface {
	NotifyUser(userID uint, eventType string, payload interface{})
}

// Event types published by the cart and order services
const (
	EventCartItemAdded   = "cart_item_added"
	EventCartItemRemoved = "cart_item_removed"
	EventOrderCreated    = "order_created"
)

package orders

const (
	TopicOrderCreated = "storefront.order.created"
	TopicOrderPaid    = "storefront.order.paid"
)

// Partition key = order id, so every event of one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

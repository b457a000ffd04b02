package domain

type EventType string

const (
	EventOrderCreated EventType = "order.created"
	EventOrderVoided  EventType = "order.voided"
	EventStockChanged EventType = "stock.changed"
)

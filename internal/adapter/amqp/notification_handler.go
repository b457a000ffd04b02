package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
	"github.com/YelzhanWeb/pos/internal/interfaces"
)

type NotificationHandler struct {
	logger logger.Logger
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
	}
}

// HandleNotification decodes an event by its routing key and logs it.
func (h *NotificationHandler) HandleNotification(ctx context.Context, routingKey string, body []byte) error {
	switch domain.EventType(routingKey) {
	case domain.EventOrderCreated, domain.EventOrderVoided:
		var msg interfaces.OrderEvent
		if err := json.Unmarshal(body, &msg); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse order event", "", map[string]interface{}{"routing_key": routingKey}, err)
			return err
		}

		h.logger.Info("notification_received", fmt.Sprintf("Order %d %s", msg.OrderID, verb(msg.Type)), "",
			map[string]interface{}{
				"order_id":    msg.OrderID,
				"customer_id": msg.CustomerID,
				"employee_id": msg.EmployeeID,
				"items":       len(msg.MenuItemIDs),
				"total":       msg.Total.StringFixed(2),
				"tax":         msg.Tax.StringFixed(2),
			})

	case domain.EventStockChanged:
		var msg interfaces.StockEvent
		if err := json.Unmarshal(body, &msg); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse stock event", "", map[string]interface{}{"routing_key": routingKey}, err)
			return err
		}

		state := "back in stock"
		if !msg.InStock {
			state = "out of stock"
		}
		h.logger.Info("notification_received", fmt.Sprintf("%s %d is %s", msg.Kind, msg.ItemID, state), "",
			map[string]interface{}{
				"kind":     msg.Kind,
				"item_id":  msg.ItemID,
				"in_stock": msg.InStock,
			})

	default:
		h.logger.Debug("notification_ignored", "Unknown event type", "", map[string]interface{}{"routing_key": routingKey})
	}

	return nil
}

func verb(t domain.EventType) string {
	if t == domain.EventOrderVoided {
		return "voided"
	}
	return "created"
}

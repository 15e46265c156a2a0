package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"dinehall-order-service/internal/engine"
)

const (
	EventsExchange = "dinehall.events"

	KitchenTicketQueue  = "dinehall.kitchen_tickets"
	KitchenTicketDLQ    = "dinehall.kitchen_tickets.dlq"
	KitchenTicketRK     = "order.placed"
	KitchenTicketDeadRK = "dead"

	SettlementQueue  = "dinehall.settlements"
	SettlementDLQ    = "dinehall.settlements.dlq"
	SettlementRK     = "bill.paid"
	SettlementDeadRK = "dead"
)

// EnsureEventTopology declares the exchange and the two durable consumers:
// kitchen ticket printing on order.placed, settlement export on bill.paid.
// Both queues dead-letter so poison messages never wedge a consumer.
func EnsureEventTopology(qc *Client) error {
	if qc == nil {
		return nil
	}

	if err := qc.EnsureExchange(EventsExchange); err != nil {
		return err
	}

	if _, err := qc.EnsureQueue(KitchenTicketDLQ); err != nil {
		return err
	}
	if err := qc.BindQueue(KitchenTicketDLQ, EventsExchange, KitchenTicketDeadRK); err != nil {
		return err
	}
	if _, err := qc.EnsureQueueWithArgs(KitchenTicketQueue, amqp.Table{
		"x-dead-letter-exchange":    EventsExchange,
		"x-dead-letter-routing-key": KitchenTicketDeadRK,
	}); err != nil {
		return err
	}
	if err := qc.BindQueue(KitchenTicketQueue, EventsExchange, KitchenTicketRK); err != nil {
		return err
	}

	if _, err := qc.EnsureQueue(SettlementDLQ); err != nil {
		return err
	}
	if err := qc.BindQueue(SettlementDLQ, EventsExchange, SettlementDeadRK); err != nil {
		return err
	}
	if _, err := qc.EnsureQueueWithArgs(SettlementQueue, amqp.Table{
		"x-dead-letter-exchange":    EventsExchange,
		"x-dead-letter-routing-key": SettlementDeadRK,
	}); err != nil {
		return err
	}
	return qc.BindQueue(SettlementQueue, EventsExchange, SettlementRK)
}

// Publisher forwards committed table events to the broker, routed by event
// type. It implements engine.Notifier; publish failures are logged and
// dropped since the in-memory state is already committed.
type Publisher struct {
	client *Client
	logger *zap.Logger
}

func NewPublisher(client *Client, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, logger: logger}
}

func (p *Publisher) Notify(evt engine.TableEvent) {
	if p.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.client.PublishJSON(ctx, EventsExchange, evt.Type, evt); err != nil {
		p.logger.Warn("event publish failed",
			zap.String("type", evt.Type),
			zap.String("tableId", evt.TableID),
			zap.Error(err),
		)
	}
}

// ConsumeKitchenTickets drains the kitchen ticket queue. The actual printing
// lives in the kitchen display service; with no print hook this worker only
// validates and acknowledges so the queue depth reflects unprinted tickets.
func ConsumeKitchenTickets(qc *Client, logger *zap.Logger, print func(ctx context.Context, evt engine.TableEvent) error) error {
	return qc.ConsumeWithRetry(KitchenTicketQueue, func(ctx context.Context, body []byte) error {
		var evt engine.TableEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			return err
		}
		if print == nil {
			logger.Info("kitchen ticket",
				zap.String("tableId", evt.TableID),
				zap.Int("items", len(evt.Items)),
			)
			return nil
		}
		return print(ctx, evt)
	}, 3, 2*time.Second)
}

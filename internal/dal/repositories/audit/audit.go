package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/mediswift/order/internal/dal/rabbitmq"
	"github.com/mediswift/order/internal/service/models/order"
)

const publishTimeout = 30 * time.Second

// publisher is the publish surface of *amqp.Channel.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AuditRabbitMQRepository publishes order lifecycle events to the audit
// queue.
type AuditRabbitMQRepository struct {
	queue     amqp.Queue
	publisher publisher
}

func NewAuditRabbitMQRepository(client *rabbitmq.Client) *AuditRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       "pharmacy.orders.status_changed",
		Durable:    false,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &AuditRabbitMQRepository{
		queue:     queue,
		publisher: client.Channel(),
	}
}

// LogStatusChange publishes one audit event per order. Remaining publishes
// stop once the group context is done, whether through the first failure or
// the publish time budget.
func (r *AuditRabbitMQRepository) LogStatusChange(ctx context.Context, orders []order.Order) error {
	auditCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	g, gCtx := errgroup.WithContext(auditCtx)
	g.SetLimit(3)

	for _, ord := range orders {
		ord := ord
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			orderData, err := json.Marshal(ord)
			if err != nil {
				return err
			}

			return r.publisher.Publish(
				"",
				r.queue.Name,
				false,
				false,
				amqp.Publishing{
					ContentType: "application/json",
					Body:        orderData,
				},
			)
		})
	}

	return g.Wait()
}

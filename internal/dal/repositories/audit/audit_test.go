package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediswift/order/internal/service/models/order"
)

type recordingPublisher struct {
	mu     sync.Mutex
	bodies [][]byte
	err    error
}

func (p *recordingPublisher) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.bodies = append(p.bodies, msg.Body)

	return nil
}

func newTestRepository(pub publisher) *AuditRabbitMQRepository {
	return &AuditRabbitMQRepository{
		queue:     amqp.Queue{Name: "pharmacy.orders.status_changed"},
		publisher: pub,
	}
}

func TestLogStatusChange_PublishesEachOrder(t *testing.T) {
	pub := &recordingPublisher{}
	repo := newTestRepository(pub)

	orders := []order.Order{
		{ID: "o1", Status: order.StatusProcessing},
		{ID: "o2", Status: order.StatusShipped},
	}
	require.NoError(t, repo.LogStatusChange(context.Background(), orders))

	require.Len(t, pub.bodies, 2)
	seen := make(map[string]order.Status)
	for _, body := range pub.bodies {
		var o order.Order
		require.NoError(t, json.Unmarshal(body, &o))
		seen[o.ID] = o.Status
	}
	assert.Equal(t, order.StatusProcessing, seen["o1"])
	assert.Equal(t, order.StatusShipped, seen["o2"])
}

func TestLogStatusChange_PublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("channel closed")}
	repo := newTestRepository(pub)

	err := repo.LogStatusChange(context.Background(), []order.Order{{ID: "o1"}})
	assert.Error(t, err)
}

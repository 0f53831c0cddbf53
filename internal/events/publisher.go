// Package events announces completed sales on Kafka for downstream
// consumers (fiscal processing, reporting). Publishing is fire-and-forget
// from the register's point of view; a failed publish never affects the
// sale itself.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const Topic = "sales-completed"

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    Topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Publisher{writer: writer}
}

// PublishSaleCompleted writes one message per completed sale, keyed by a
// fresh uuid.
func (p *Publisher) PublishSaleCompleted(ctx context.Context, sale domain.Sale) error {
	value, err := saleCompletedPayload(sale)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(uuid.NewString()),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write sale completed message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func saleCompletedPayload(sale domain.Sale) ([]byte, error) {
	payload := map[string]interface{}{
		"sale_id":       sale.ID,
		"date":          sale.Date,
		"items":         sale.Items,
		"total":         sale.Total,
		"fiscal_status": sale.FiscalStatus,
		"completed_at":  time.Now(),
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sale payload: %w", err)
	}
	return value, nil
}

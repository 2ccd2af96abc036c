package kafka

import (
	"context"
	"fmt"
	"log"
	"time"
)

type Producer interface {
	SendMessage(ctx context.Context, key []byte, value []byte) error
	Close() error
}

// ConsoleProducer stands in for Kafka in local development: batches are
// printed instead of published.
type ConsoleProducer struct {
	topic string
}

func NewConsoleProducer(topic string) *ConsoleProducer {
	log.Println("Initialized console audit producer")
	return &ConsoleProducer{topic: topic}
}

func (p *ConsoleProducer) SendMessage(ctx context.Context, key []byte, value []byte) error {
	select {
	case <-time.After(50 * time.Millisecond):
		fmt.Printf("\n--- AUDIT (CONSOLE) ---\n")
		fmt.Printf("Topic: %s\n", p.topic)
		fmt.Printf("Key: %s\n", string(key))
		fmt.Printf("Value: %s\n", string(value))
		fmt.Printf("--- END AUDIT ---\n")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *ConsoleProducer) Close() error {
	return nil
}

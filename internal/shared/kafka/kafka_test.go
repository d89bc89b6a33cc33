package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092, b:9092 ,"))
	assert.Empty(t, splitBrokers(""))
}

func TestNewWriter(t *testing.T) {
	w := NewWriter("a:9092,b:9092", "sports_entity_changes")
	assert.Equal(t, "sports_entity_changes", w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.True(t, w.Async)
}

package loyalty

import (
	"context"

	config "github.com/electrohub/loyalty/internal/config"
	"github.com/segmentio/kafka-go"
)

// KafkaOrder reads order and return events. Offsets are committed after the handler succeeds.
type KafkaOrder struct {
	reader *kafka.Reader
}

func GetNewReader(cfg config.Kafka, topic string) (reader *KafkaOrder, err error) {
	broker, err := cfg.Broker()
	if err != nil {
		return nil, err
	}
	kafkaconfig := kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: cfg.GroupID,
	}
	return &KafkaOrder{kafka.NewReader(kafkaconfig)}, nil
}

type Message struct {
	Value string
	msg   kafka.Message
}

func (k *KafkaOrder) GetNewMessage(ctx context.Context) (Message, error) {
	msg, err := k.reader.FetchMessage(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{string(msg.Value), msg}, nil
}

// Commit marks the message as processed.
func (k *KafkaOrder) Commit(ctx context.Context, m Message) error {
	return k.reader.CommitMessages(ctx, m.msg)
}

func (k *KafkaOrder) CloseReader() {
	k.reader.Close()
}

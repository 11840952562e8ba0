package kafka

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/outer-user-333/recon-0-lite/internal/infra/config"
)

// Producer wraps an async sarama producer. Delivery failures are logged and
// surfaced on Errors; publishing never blocks the request path.
type Producer struct {
	async  sarama.AsyncProducer
	logger *zap.Logger
	prefix string

	errChan chan error
	done    chan struct{}
	closeMu sync.Once
}

// NewProducer connects to the configured brokers and starts the delivery
// error drain.
func NewProducer(cfg config.KafkaSettings, logger *zap.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	sc := sarama.NewConfig()
	sc.Version = sarama.V3_5_0_0
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Flush.Frequency = 100 * time.Millisecond
	sc.Producer.Flush.Messages = 100
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = false
	sc.Producer.Return.Errors = true
	sc.Metadata.Retry.Max = 3
	sc.Metadata.Retry.Backoff = 250 * time.Millisecond

	async, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("kafka: connect producer: %w", err)
	}

	p := &Producer{
		async:   async,
		logger:  logger,
		prefix:  cfg.TopicPrefix,
		errChan: make(chan error, 256),
		done:    make(chan struct{}),
	}
	go p.drainErrors()

	logger.Info("kafka producer ready",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic_prefix", cfg.TopicPrefix),
	)

	return p, nil
}

func (p *Producer) drainErrors() {
	for {
		select {
		case perr, ok := <-p.async.Errors():
			if !ok {
				return
			}
			p.logger.Error("kafka delivery failed",
				zap.String("topic", perr.Msg.Topic),
				zap.Int32("partition", perr.Msg.Partition),
				zap.Int64("offset", perr.Msg.Offset),
				zap.Error(perr.Err),
			)
			select {
			case p.errChan <- perr.Err:
			default:
				// Monitoring has fallen behind; the log line above is the record.
			}
		case <-p.done:
			return
		}
	}
}

// Producer exposes the underlying async producer for message submission.
func (p *Producer) Producer() sarama.AsyncProducer {
	return p.async
}

// Errors streams delivery failures that have not been consumed yet.
func (p *Producer) Errors() <-chan error {
	return p.errChan
}

// TopicName applies the configured topic prefix to an event type.
func (p *Producer) TopicName(eventType string) string {
	if p.prefix == "" || strings.HasPrefix(eventType, p.prefix+".") {
		return eventType
	}
	return p.prefix + "." + eventType
}

// Close stops the error drain and flushes pending messages.
func (p *Producer) Close() error {
	var err error
	p.closeMu.Do(func() {
		close(p.done)
		err = p.async.Close()
		close(p.errChan)
	})
	return err
}

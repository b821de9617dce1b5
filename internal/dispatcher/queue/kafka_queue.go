package queue

import (
	"context"
	"sync"
	"time"

	"legistar-dispatch/internal/utils"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Seeds         []string
	ConsumerGroup string
	Topic         string
	User          string
	Password      string
}

type KafkaQueue struct {
	logger       *zap.SugaredLogger
	KafkaClient  *kgo.Client
	topic        string
	consumerChan chan []byte
	producerChan chan []byte
}

func NewKafkaQueue(logger *zap.SugaredLogger, cfg *KafkaConfig) (*KafkaQueue, error) {
	tracing := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer()))

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Seeds...),
		kgo.ConsumerGroup(cfg.ConsumerGroup),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.WithHooks(tracing.Hooks()...),
	}

	if cfg.User != "" {
		opts = append(opts, kgo.SASL(plain.Auth{
			User: cfg.User,
			Pass: cfg.Password,
		}.AsMechanism()))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	return &KafkaQueue{
		logger:       logger,
		KafkaClient:  client,
		topic:        cfg.Topic,
		consumerChan: make(chan []byte, ChannelBufferLimit),
		producerChan: make(chan []byte, ChannelBufferLimit),
	}, nil
}

func (q *KafkaQueue) GetProducerChan() chan<- []byte {
	return q.producerChan
}

func (q *KafkaQueue) GetConsumerChan() <-chan []byte {
	return q.consumerChan
}

func (q *KafkaQueue) StartQueueConsumer() {
	timer := time.NewTimer(queueTimeout)
	utils.DrainTimer(timer)

	for {
		fetches := q.getFetches()
		if fetches.IsClientClosed() {
			return
		}

		iter := fetches.RecordIter()

		var recordsToCommit []*kgo.Record

		for !iter.Done() {
			record := iter.Next()

			if record == nil {
				continue
			}

			timer.Reset(queueTimeout)

			// Only records actually handed off get committed; dropped ones
			// stay uncommitted so the broker redelivers them.
			if q.handOff(record, timer) {
				recordsToCommit = append(recordsToCommit, record)
			}
		}

		if len(recordsToCommit) > 0 {
			q.commitRecords(recordsToCommit...)
		}
	}
}

func (q *KafkaQueue) handOff(record *kgo.Record, timer *time.Timer) bool {
	select {
	case q.consumerChan <- record.Value:
		utils.DrainTimer(timer)
		return true
	case <-timer.C:
		q.logger.Warnw("Dropping record due to slow consumer or full channel", "topic", q.topic)
		return false
	}
}

func (q *KafkaQueue) getFetches() kgo.Fetches {
	ctx, cancel := context.WithTimeout(context.Background(), SingleRequestTimeout)
	defer cancel()

	return q.KafkaClient.PollFetches(ctx)
}

func (q *KafkaQueue) commitRecords(records ...*kgo.Record) {
	commitCtx, commitCancel := context.WithTimeout(context.Background(), SingleRequestTimeout)
	defer commitCancel()

	err := q.KafkaClient.CommitRecords(commitCtx, records...)
	if err != nil {
		q.logger.Warnw("Failed to commit records in kafka", "topic", q.topic, "err", err)
	}
}

func (q *KafkaQueue) StartQueueProducer() {
	items := make([][]byte, 0, producerBatchSize)
	flushTicker := time.NewTicker(tickerTimeout)
	defer flushTicker.Stop()

	for {
		select {
		case item, ok := <-q.producerChan:
			if !ok {
				if len(items) > 0 {
					q.sendToKafka(items)
				}
				return
			}

			items = append(items, item)
			if len(items) >= producerBatchSize {
				q.sendToKafka(items)
				items = make([][]byte, 0, producerBatchSize)
			}
		case <-flushTicker.C:
			if len(items) > 0 {
				q.sendToKafka(items)
				items = make([][]byte, 0, producerBatchSize)
			}
		}
	}
}

func (q *KafkaQueue) sendToKafka(items [][]byte) {
	records := make([]*kgo.Record, 0, len(items))

	for _, item := range items {
		records = append(records, &kgo.Record{
			Topic: q.topic,
			Value: item,
		})
	}

	q.produceRecords(records)
}

func (q *KafkaQueue) produceRecords(records []*kgo.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), SingleRequestTimeout)
	defer cancel()

	var wg sync.WaitGroup

	for _, record := range records {
		wg.Add(1)
		q.KafkaClient.Produce(ctx, record, func(_ *kgo.Record, err error) {
			defer wg.Done()
			if err != nil {
				q.logger.Warnw("Failed to produce record in kafka", "topic", q.topic, "err", err)
			}
		})
	}

	wg.Wait()

	q.logger.Debugw("Produced records", "topic", q.topic, "count", len(records))
}

func (q *KafkaQueue) CloseQueue(ctx context.Context) error {
	if err := drainAndCloseChannel(ctx, q.producerChan); err != nil {
		return err
	}

	if err := q.KafkaClient.Flush(ctx); err != nil {
		return err
	}

	q.KafkaClient.Close()
	return nil
}

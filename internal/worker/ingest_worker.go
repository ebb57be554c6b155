package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"knowledge-assist/internal/app"
	"knowledge-assist/internal/model"
)

// IngestWorker consumes document batches from the ingest queue and feeds
// them to the retrieval engine. Queue consumption serializes index writes
// for the async path.
type IngestWorker struct {
	conn      *amqp.Connection
	knowledge *app.KnowledgeService
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewIngestWorker(conn *amqp.Connection, knowledge *app.KnowledgeService, queueName string) *IngestWorker {
	return &IngestWorker{
		conn:      conn,
		knowledge: knowledge,
		queueName: queueName,
	}
}

func (w *IngestWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare ingest queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume ingest queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var documents []model.Document
				if err := json.Unmarshal(d.Body, &documents); err != nil {
					log.Printf("worker decode document batch failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				stats, err := w.knowledge.Ingest(workerCtx, documents)
				if err != nil {
					log.Printf("worker ingest failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				log.Printf("worker ingested %d documents (%d chunks)",
					stats.DocumentsIngested, stats.ChunksCreated)
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *IngestWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"geocatch/internal/model"
	"geocatch/internal/platform/rabbitmq"
)

var errMalformedEvent = errors.New("malformed cache event")

type CacheEventStore interface {
	Create(ctx context.Context, event *model.CacheEvent) error
}

// CacheEventWorker drains the cache event queue into the activity table.
type CacheEventWorker struct {
	conn      *amqp.Connection
	store     CacheEventStore
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCacheEventWorker(conn *amqp.Connection, store CacheEventStore, queueName string) *CacheEventWorker {
	return &CacheEventWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
	}
}

func (w *CacheEventWorker) Start(ctx context.Context) error {
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

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
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
		return fmt.Errorf("consume queue failed: %w", err)
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
				if err := w.handle(workerCtx, d.Body); err != nil {
					log.Printf("worker handle cache event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *CacheEventWorker) handle(ctx context.Context, body []byte) error {
	var event model.CacheEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if event.CacheID == "" || event.Action == "" {
		return errMalformedEvent
	}
	// ids are assigned by the activity table
	event.ID = 0
	return w.store.Create(ctx, &event)
}

func (w *CacheEventWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

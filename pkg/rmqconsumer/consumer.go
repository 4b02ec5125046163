package rmqconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"filelink-api/config"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/user"
)

// DeliveredRoutingKey is published by the transport side once it has sent a
// file's bytes to a user.
const DeliveredRoutingKey = "file.delivered"

const preFetchCount = 8

type (
	DownloadRecorder interface {
		RecordDownload(ctx context.Context, fileID string, downloader user.ID) (uint64, error)
	}

	Consumer struct {
		cfg        config.MQ
		log        *zap.Logger
		recorder   DownloadRecorder
		conn       *amqp091.Connection
		chConsume  *amqp091.Channel
		chDelivery <-chan amqp091.Delivery
	}

	deliveredMessage struct {
		FileID string `json:"file_id"`
		UserID int64  `json:"user_id"`
	}
)

func New(cfg config.MQ, logger *zap.Logger, recorder DownloadRecorder) *Consumer {
	return &Consumer{
		cfg:      cfg,
		log:      logger,
		recorder: recorder,
	}
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	c.conn, err = amqp091.DialConfig(dsn, amqp091.Config{
		Properties: amqp091.Table{"connection_name": "filelink-consumer"},
	})
	if err != nil {
		c.conn = nil
		return fmt.Errorf("amqp dial: %w", err)
	}
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		_ = c.conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if err := c.declareDeadLetter(); err != nil {
		return err
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.DeliveryQueue,
		true,
		false,
		false,
		false,
		deliveryQueueArgs(c.cfg),
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := c.chConsume.QueueBind(
		c.cfg.DeliveryQueue,
		DeliveredRoutingKey,
		c.cfg.Exchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue bind %s: %w", DeliveredRoutingKey, err)
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.DeliveryQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

// declareDeadLetter sets up the fanout exchange and queue that keep reports
// rejected without requeue.
func (c *Consumer) declareDeadLetter() error {
	if c.cfg.DeadLetterExchange == "" {
		return nil
	}
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.DeadLetterExchange,
		amqp091.ExchangeFanout,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("dead-letter exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.DeadLetterQueue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("dead-letter queue declare: %w", err)
	}
	if err := c.chConsume.QueueBind(
		c.cfg.DeadLetterQueue,
		"",
		c.cfg.DeadLetterExchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("dead-letter queue bind: %w", err)
	}

	return nil
}

func deliveryQueueArgs(cfg config.MQ) amqp091.Table {
	if cfg.DeadLetterExchange == "" {
		return nil
	}
	return amqp091.Table{"x-dead-letter-exchange": cfg.DeadLetterExchange}
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(ctx, msg); err != nil {
				c.log.Error("mq delivery error", zap.String("message_id", msg.MessageId), zap.Error(err))
			}
		case <-ctx.Done():
			_ = c.chConsume.Close()
			return
		}
	}
}

// delivery records one download report and settles the message. Malformed
// reports and unknown files are rejected straight away; other failures are
// requeued once and then rejected. Rejected messages go to the dead-letter
// queue when one is configured.
func (c *Consumer) delivery(ctx context.Context, msg amqp091.Delivery) error {
	var m deliveredMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil || m.FileID == "" || m.UserID < 0 {
		c.settled(msg, "reject", msg.Reject(false))
		return fmt.Errorf("malformed %s message: %w", DeliveredRoutingKey, domain.ErrInvalidInput)
	}

	count, err := c.recorder.RecordDownload(ctx, m.FileID, user.ID(m.UserID))
	switch {
	case err == nil:
		c.log.Debug("download recorded",
			zap.String("file_id", m.FileID),
			zap.Int64("user_id", m.UserID),
			zap.Uint64("download_count", count),
		)
		return msg.Ack(false)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		c.settled(msg, "reject", msg.Reject(false))
		return fmt.Errorf("drop download of %s: %w", m.FileID, err)
	default:
		requeue := !msg.Redelivered
		if !requeue {
			c.log.Error("download report failed twice, dead-lettering",
				zap.String("file_id", m.FileID),
				zap.Int64("user_id", m.UserID),
				zap.String("dead_letter_exchange", c.cfg.DeadLetterExchange),
				zap.Error(err),
			)
		}
		c.settled(msg, "nack", msg.Nack(false, requeue))
		return fmt.Errorf("record download of %s: %w", m.FileID, err)
	}
}

func (c *Consumer) settled(msg amqp091.Delivery, action string, err error) {
	if err != nil {
		c.log.Error("mq settlement failed",
			zap.String("action", action),
			zap.Uint64("delivery_tag", msg.DeliveryTag),
			zap.Error(err),
		)
	}
}

func (c *Consumer) Close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

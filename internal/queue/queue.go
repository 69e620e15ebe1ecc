// Package queue carries analysis dispatches over RabbitMQ. The API surface
// acknowledges immediately; the worker consumes jobs in the background.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xeipuuv/gojsonschema"

	"hirelens/internal/common/config"
	"hirelens/internal/common/logger"
)

// AnalysisJob is the wire message for one analysis dispatch.
type AnalysisJob struct {
	ApplicationID int64  `json:"application_id"`
	CVPath        string `json:"cv_path"`
}

var jobSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"properties": {
		"application_id": {"type": "integer", "minimum": 1},
		"cv_path": {"type": "string", "minLength": 1}
	},
	"required": ["application_id", "cv_path"]
}`)

// validateJob rejects malformed messages before they reach the pipeline.
func validateJob(body []byte) error {
	result, err := gojsonschema.Validate(jobSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}
	if !result.Valid() {
		return fmt.Errorf("invalid analysis job message: %v", result.Errors())
	}
	return nil
}

// Client owns the connection, channel and durable queue declaration.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  logger.Logger
}

func NewClient(cfg config.QueueConfig, log logger.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Info("Connected to RabbitMQ", map[string]interface{}{
		"queue": cfg.QueueName,
	})
	return &Client{conn: conn, channel: ch, queue: q, logger: log}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish dispatches one analysis job. Persistent delivery so a broker
// restart does not drop accepted applications.
func (c *Client) Publish(ctx context.Context, applicationID int64, cvPath string) error {
	body, err := json.Marshal(AnalysisJob{ApplicationID: applicationID, CVPath: cvPath})
	if err != nil {
		return err
	}

	err = c.channel.PublishWithContext(
		ctx,
		"",           // exchange
		c.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish analysis job: %w", err)
	}

	c.logger.Info("Analysis job dispatched", map[string]interface{}{
		"applicationId": applicationID,
	})
	return nil
}

// Consume delivers jobs to handler until ctx is cancelled, running up to
// maxConcurrent handlers at once. Manual acks: a handler failure nacks
// without requeue so a poison message cannot loop forever; the Failed
// analysis record carries the error instead.
func (c *Client) Consume(ctx context.Context, maxConcurrent int, handler func(ctx context.Context, job AnalysisJob) error) error {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if err := c.channel.Qos(maxConcurrent, 0, false); err != nil {
		return fmt.Errorf("failed to set channel qos: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue.Name,
		"",
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	return c.consumeLoop(ctx, msgs, maxConcurrent, handler)
}

func (c *Client) consumeLoop(ctx context.Context, msgs <-chan amqp.Delivery, maxConcurrent int, handler func(ctx context.Context, job AnalysisJob) error) error {
	sem := make(chan struct{}, maxConcurrent)
	drain := func() {
		for i := 0; i < maxConcurrent; i++ {
			sem <- struct{}{}
		}
	}
	for {
		select {
		case <-ctx.Done():
			// Wait for in-flight handlers so shutdown never abandons a
			// delivery between handler completion and its ack.
			drain()
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				drain()
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				c.handleDelivery(ctx, d, handler)
			}(d)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, d amqp.Delivery, handler func(ctx context.Context, job AnalysisJob) error) {
	if err := validateJob(d.Body); err != nil {
		c.logger.Error("Dropping malformed analysis job", map[string]interface{}{
			"error": err.Error(),
		})
		d.Nack(false, false)
		return
	}

	var job AnalysisJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		c.logger.Error("Dropping undecodable analysis job", map[string]interface{}{
			"error": err.Error(),
		})
		d.Nack(false, false)
		return
	}

	if err := handler(ctx, job); err != nil {
		c.logger.Error("Analysis job handler failed", map[string]interface{}{
			"applicationId": job.ApplicationID,
			"error":         err.Error(),
		})
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

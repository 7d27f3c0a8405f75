package eventbus

import (
	"context"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-hub/internal/domain/series"
	"github.com/riskibarqy/cricket-hub/internal/platform/logging"
	"github.com/riskibarqy/cricket-hub/internal/platform/resilience"
	"github.com/streadway/amqp"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	SeriesPatchRoutingKey = "series.patch"
	seriesPatchEventType  = "series.patch"
	exchangeKindTopic     = "topic"

	defaultQueueSize   = 256
	defaultDialTimeout = 5 * time.Second
)

var (
	errBrokerTransient = crerr.New("amqp broker transient failure")
	// ErrPublishQueueFull is returned when patches arrive faster than the
	// broker accepts them. The patch is dropped.
	ErrPublishQueueFull = crerr.New("amqp publish queue is full")
)

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type dialFunc func() (channel, func() error, error)

type AMQPPublisherConfig struct {
	URL            string
	Exchange       string
	Heartbeat      time.Duration
	DialTimeout    time.Duration
	QueueSize      int
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// AMQPPublisher broadcasts series patches to a topic exchange so other
// services can follow hydration without polling. Patches are queued and sent
// by a single goroutine, so callers never wait on the broker. The connection
// is opened lazily and dropped after a failed publish so the next send
// redials.
type AMQPPublisher struct {
	exchange string
	dial     dialFunc
	breaker  *resilience.CircuitBreaker
	logger   *logging.Logger
	now      func() time.Time

	queue     chan outboundPatch
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// owned by the send loop, and by Close once the loop has exited
	ch        channel
	closeConn func() error
}

type outboundPatch struct {
	stageID int64
	body    []byte
}

func NewAMQPPublisher(cfg AMQPPublisherConfig) (*AMQPPublisher, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, crerr.New("amqp url is required")
	}
	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	dial := func() (channel, func() error, error) {
		conn, err := amqp.DialConfig(url, amqp.Config{
			Heartbeat: heartbeat,
			Locale:    "en_US",
			Dial:      amqp.DefaultDial(dialTimeout),
		})
		if err != nil {
			return nil, nil, err
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return ch, conn.Close, nil
	}
	return newAMQPPublisher(cfg, dial)
}

func newAMQPPublisher(cfg AMQPPublisherConfig, dial dialFunc) (*AMQPPublisher, error) {
	exchange := strings.TrimSpace(cfg.Exchange)
	if exchange == "" {
		return nil, crerr.New("amqp exchange is required")
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	p := &AMQPPublisher{
		exchange: exchange,
		dial:     dial,
		breaker:  resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		logger:   logging.OrDefault(cfg.Logger).Named("amqp_publisher"),
		now:      time.Now,
		queue:    make(chan outboundPatch, queueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.sendLoop()
	return p, nil
}

type seriesPatchMessage struct {
	Type           string  `json:"type"`
	PrimaryStageID int64   `json:"primary_stage_id"`
	StageIDs       []int64 `json:"stage_ids"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	PublishedAt    string  `json:"published_at"`
}

func newSeriesPatchMessage(patch series.Patch, now time.Time) seriesPatchMessage {
	stageIDs := patch.StageIDs
	if len(stageIDs) == 0 {
		stageIDs = []int64{patch.PrimaryStageID}
	}
	return seriesPatchMessage{
		Type:           seriesPatchEventType,
		PrimaryStageID: patch.PrimaryStageID,
		StageIDs:       stageIDs,
		StartDate:      formatDate(patch.StartDate),
		EndDate:        formatDate(patch.EndDate),
		PublishedAt:    now.UTC().Format(time.RFC3339),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

// encodeSeriesPatch returns a body owned by the caller.
func encodeSeriesPatch(msg seriesPatchMessage) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(msg); err != nil {
		return nil, crerr.Wrap(err, "encode series patch")
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

// PublishSeriesPatch encodes patch and queues it for delivery. It returns
// ErrPublishQueueFull instead of blocking when the queue is full.
func (p *AMQPPublisher) PublishSeriesPatch(ctx context.Context, patch series.Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := encodeSeriesPatch(newSeriesPatchMessage(patch, p.now()))
	if err != nil {
		return err
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", p.exchange),
			attribute.String("messaging.rabbitmq.routing_key", SeriesPatchRoutingKey),
			attribute.Int64("series.primary_stage_id", patch.PrimaryStageID),
		)
	}

	select {
	case <-p.stop:
		return crerr.New("amqp publisher is closed")
	default:
	}

	select {
	case p.queue <- outboundPatch{stageID: patch.PrimaryStageID, body: body}:
		return nil
	default:
		return crerr.Wrapf(ErrPublishQueueFull, "stage_id=%d", patch.PrimaryStageID)
	}
}

func (p *AMQPPublisher) sendLoop() {
	defer close(p.done)

	for {
		select {
		case msg := <-p.queue:
			p.send(msg)
		case <-p.stop:
			for {
				select {
				case msg := <-p.queue:
					p.send(msg)
				default:
					return
				}
			}
		}
	}
}

func (p *AMQPPublisher) send(msg outboundPatch) {
	if err := p.deliver(msg.body); err != nil {
		p.logger.Warn("series patch delivery failed", "stage_id", msg.stageID, "exchange", p.exchange, "error", err)
		return
	}
	p.logger.Debug("series patch published", "stage_id", msg.stageID, "exchange", p.exchange)
}

func (p *AMQPPublisher) deliver(body []byte) error {
	err := p.breaker.Execute(func() error {
		return p.publish(body)
	}, func(err error) bool { return crerr.Is(err, errBrokerTransient) })
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			return crerr.Wrap(err, "amqp publisher is temporarily unavailable")
		}
		return err
	}
	return nil
}

func (p *AMQPPublisher) publish(body []byte) error {
	if p.ch == nil {
		ch, closeConn, err := p.dial()
		if err != nil {
			return crerr.Mark(crerr.Wrap(err, "dial"), errBrokerTransient)
		}
		if err := ch.ExchangeDeclare(p.exchange, exchangeKindTopic, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			if closeConn != nil {
				_ = closeConn()
			}
			return crerr.Mark(crerr.Wrapf(err, "declare exchange=%s", p.exchange), errBrokerTransient)
		}
		p.ch = ch
		p.closeConn = closeConn
	}

	err := p.ch.Publish(p.exchange, SeriesPatchRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Type:         seriesPatchEventType,
		Body:         body,
	})
	if err != nil {
		p.reset()
		return crerr.Mark(crerr.Wrapf(err, "publish exchange=%s", p.exchange), errBrokerTransient)
	}
	return nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.ch = nil
	p.closeConn = nil
}

// Close delivers what is already queued, stops the send loop and drops the
// broker connection. Publishing after Close fails.
func (p *AMQPPublisher) Close() error {
	p.closeOnce.Do(func() {
		close(p.stop)
		<-p.done
		p.reset()
	})
	return nil
}

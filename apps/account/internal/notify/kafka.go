package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"SocialServer/config"
	"SocialServer/pkg/async"
	"SocialServer/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// messageWriter kafka.Writer 的最小子集
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 把 UserCreated 以 JSON 写入 Kafka，key 为用户 id
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

// NewKafkaPublisher 根据配置创建 Writer
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // 同一用户落同一分区
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.L().Sugar().Errorf("kafka writer: "+msg, args...)
		}),
	}
	return &KafkaPublisher{writer: w, timeout: cfg.WriteTimeout}
}

// OnUserCreated 在协程池中投递
func (p *KafkaPublisher) OnUserCreated(ctx context.Context, evt UserCreated) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.UserID, 10)),
		Value: value,
		Time:  evt.CreatedAt,
	}

	async.RunSafe(ctx, func(runCtx context.Context) {
		if err := p.writer.WriteMessages(runCtx, msg); err != nil {
			logger.Error(runCtx, "UserCreated 事件写入 Kafka 失败",
				logger.Int64("user_id", evt.UserID),
				logger.ErrorField("error", err),
			)
		}
	}, p.timeout)
	return nil
}

// Close 关闭 Writer，刷出缓冲中的消息
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

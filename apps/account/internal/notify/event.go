package notify

import (
	"context"
	"sync"
	"time"

	"SocialServer/pkg/logger"
)

// UserCreated 用户行写入成功后发布的事件
type UserCreated struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher 事件发布方（账号服务依赖此接口）
type Publisher interface {
	PublishUserCreated(ctx context.Context, evt UserCreated)
}

// Subscriber 事件订阅方
type Subscriber interface {
	OnUserCreated(ctx context.Context, evt UserCreated) error
}

// SubscriberFunc 函数适配为 Subscriber
type SubscriberFunc func(ctx context.Context, evt UserCreated) error

func (f SubscriberFunc) OnUserCreated(ctx context.Context, evt UserCreated) error { return f(ctx, evt) }

type namedSubscriber struct {
	name string
	sub  Subscriber
}

// Bus 进程内事件总线，按注册顺序依次投递。
// 单个订阅方失败只记录日志，不影响后续订阅方，也不回滚已提交的用户。
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedSubscriber
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe 注册订阅方
func (b *Bus) Subscribe(name string, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedSubscriber{name: name, sub: sub})
}

// PublishUserCreated 投递 UserCreated 事件
func (b *Bus) PublishUserCreated(ctx context.Context, evt UserCreated) {
	b.mu.RLock()
	subs := make([]namedSubscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.sub.OnUserCreated(ctx, evt); err != nil {
			logger.Error(ctx, "UserCreated 事件处理失败",
				logger.String("subscriber", s.name),
				logger.Int64("user_id", evt.UserID),
				logger.ErrorField("error", err),
			)
		}
	}
}

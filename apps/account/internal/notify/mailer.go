package notify

import (
	"context"
	"errors"
	"strings"

	"SocialServer/config"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/metrics"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

// ErrMailUnavailable 熔断开启，暂停发信
var ErrMailUnavailable = errors.New("mail service unavailable")

// Message 邮件内容
type Message struct {
	Kind    string // activation / welcome，用于指标
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Mailer 发信接口
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer 未配置 SMTP 时返回 LogMailer
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return &LogMailer{From: cfg.From}
	}
	return NewSMTPMailer(cfg)
}

// sender 抽象 gomail.Dialer，便于测试
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer 通过 SMTP 发信，外层包一层熔断器
type SMTPMailer struct {
	from    string
	dialer  sender
	breaker *gobreaker.CircuitBreaker
}

// NewSMTPMailer 创建 SMTP 发信器
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return newSMTPMailer(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password))
}

func newSMTPMailer(cfg config.MailConfig, d sender) *SMTPMailer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: cfg.BreakerMaxRequests, // 半开状态下允许的试探请求数
		Interval:    cfg.BreakerInterval,    // 清除计数的时间间隔
		Timeout:     cfg.BreakerTimeout,     // 熔断器开启后多久尝试进入半开状态
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 至少 5 次请求且失败率超过 50% 时触发熔断
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "熔断器状态变化",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return &SMTPMailer{from: cfg.From, dialer: d, breaker: breaker}
}

// Send 发送邮件
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	if msg.HTML {
		gm.SetBody("text/html", msg.Body)
	} else {
		gm.SetBody("text/plain", msg.Body)
	}

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.dialer.DialAndSend(gm)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = ErrMailUnavailable
	}
	metrics.RecordMail(msg.Kind, err)
	if err != nil {
		logger.Warn(ctx, "邮件发送失败",
			logger.String("kind", msg.Kind),
			logger.String("to", strings.Join(msg.To, ",")),
			logger.ErrorField("error", err),
		)
	}
	return err
}

// LogMailer 只记录日志不发送，本地开发使用
type LogMailer struct {
	From string
}

// Send 打印邮件内容
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	logger.Info(ctx, "邮件（未配置 SMTP，仅记录）",
		logger.String("kind", msg.Kind),
		logger.String("from", m.From),
		logger.String("to", strings.Join(msg.To, ",")),
		logger.String("subject", msg.Subject),
		logger.String("body", msg.Body),
	)
	metrics.RecordMail(msg.Kind, nil)
	return nil
}

package notify

import (
	"context"
	"fmt"

	"SocialServer/pkg/async"
)

const (
	welcomeSubject = "Welcome to Our Website"
	welcomeBody    = "Hi %s, thank you for registering at our site."
)

// WelcomeMailer 订阅 UserCreated，在协程池中发送欢迎邮件
type WelcomeMailer struct {
	mailer Mailer
}

// NewWelcomeMailer 创建欢迎邮件订阅方
func NewWelcomeMailer(mailer Mailer) *WelcomeMailer {
	return &WelcomeMailer{mailer: mailer}
}

// OnUserCreated 异步发送，失败由 Mailer 记录日志
func (w *WelcomeMailer) OnUserCreated(ctx context.Context, evt UserCreated) error {
	if evt.Email == "" {
		return nil
	}
	msg := WelcomeMessage(evt)
	async.RunSafe(ctx, func(runCtx context.Context) {
		_ = w.mailer.Send(runCtx, msg)
	}, 0)
	return nil
}

// WelcomeMessage 欢迎邮件内容
func WelcomeMessage(evt UserCreated) Message {
	return Message{
		Kind:    "welcome",
		To:      []string{evt.Email},
		Subject: welcomeSubject,
		Body:    fmt.Sprintf(welcomeBody, evt.FirstName),
	}
}

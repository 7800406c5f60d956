package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"SocialServer/model"
)

const (
	activationSubject  = "Activate Your Account"
	activationTemplate = "accounts/account_activation_email.html"
)

// ActivationEmail 激活邮件模板数据
type ActivationEmail struct {
	User     *model.User
	Domain   string
	Protocol string
	UID      string
	Token    string
}

// Link 激活链接
func (a ActivationEmail) Link() string {
	return fmt.Sprintf("%s://%s/activate/%s/%s/", a.Protocol, a.Domain, a.UID, a.Token)
}

// RenderActivationEmail 渲染激活邮件
func RenderActivationEmail(tmpl *template.Template, data ActivationEmail) (Message, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, activationTemplate, data); err != nil {
		return Message{}, err
	}
	return Message{
		Kind:    "activation",
		To:      []string{data.User.Email},
		Subject: activationSubject,
		Body:    buf.String(),
		HTML:    true,
	}, nil
}

package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

// ErrMalformedMessage 消息本身有问题，重新入队也不会成功
var ErrMalformedMessage = errors.New("邮件消息格式错误")

type mailTemplate struct {
	file    string
	subject string
	tmpl    *template.Template
	data    func() any
}

type Mailer struct {
	from      string
	templates map[string]*mailTemplate
}

var funcs = template.FuncMap{
	"elapsed":   FormatElapsed,
	"percent":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"riskLabel": RiskLabel,
	"inc":       func(i int) int { return i + 1 },
}

// New 在启动时解析所有模板，模板有错误时直接失败
func New(from string, templateDir string) (*Mailer, error) {
	templates := map[string]*mailTemplate{
		"create_user": {
			file:    "new_account_email.html",
			subject: "机组疲劳评估系统 - 账户信息",
			data:    func() any { return &domain.CreateUserMailData{} },
		},
		"fatigue_alert": {
			file:    "fatigue_alert_email.html",
			subject: "机组疲劳评估系统 - 疲劳预警",
			data:    func() any { return &domain.FatigueAlertMailData{} },
		},
	}

	for _, t := range templates {
		tmpl, err := template.New(t.file).Funcs(funcs).ParseFiles(filepath.Join(templateDir, t.file))
		if err != nil {
			return nil, err
		}
		t.tmpl = tmpl
	}

	return &Mailer{
		from:      from,
		templates: templates,
	}, nil
}

// Render 解析队列中的消息并渲染邮件正文
func (m *Mailer) Render(body []byte) (to string, subject string, html string, err error) {
	var raw struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	t, ok := m.templates[raw.Type]
	if !ok {
		return "", "", "", fmt.Errorf("%w: 不支持的邮件类型 %q", ErrMalformedMessage, raw.Type)
	}
	if raw.To == "" {
		return "", "", "", fmt.Errorf("%w: 缺少收件人", ErrMalformedMessage)
	}

	data := t.data()
	if err := json.Unmarshal(raw.Data, data); err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	return raw.To, t.subject, buf.String(), nil
}

// Build 构建可以直接发送的邮件
func (m *Mailer) Build(body []byte) (*mail.Msg, error) {
	to, subject, html, err := m.Render(body)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	return msg, nil
}

// FormatElapsed 将行程分钟数显示为“第 N 天 HH:MM”，第 0 天从行程开始当天午夜算起
func FormatElapsed(minutes float64) string {
	total := int(math.Round(minutes))
	day := int(math.Floor(float64(total) / 1440))
	rest := total - day*1440
	return fmt.Sprintf("第 %d 天 %02d:%02d", day, rest/60, rest%60)
}

func RiskLabel(level domain.RiskLevel) string {
	switch level {
	case domain.RiskLow:
		return "低"
	case domain.RiskModerate:
		return "中"
	case domain.RiskHigh:
		return "高"
	case domain.RiskSevere:
		return "严重"
	default:
		return string(level)
	}
}

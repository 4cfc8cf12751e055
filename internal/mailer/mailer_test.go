package mailer

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/crew-fatigue/backend/internal/domain"
)

func newMailer(t *testing.T) *Mailer {
	t.Helper()

	m, err := New("noreply@example.com", "../../templates")
	require.NoError(t, err)
	return m
}

func encode(t *testing.T, msg domain.MailMessage) []byte {
	t.Helper()

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return body
}

func TestRenderCreateUser(t *testing.T) {
	m := newMailer(t)

	to, subject, html, err := m.Render(encode(t, domain.MailMessage{
		Type: "create_user",
		To:   "wangwei@example.com",
		Data: domain.CreateUserMailData{FullName: "王伟", Username: "wangw12", Password: "s3cret"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "wangwei@example.com", to)
	assert.Contains(t, subject, "账户信息")
	assert.Contains(t, html, "王伟")
	assert.Contains(t, html, "wangw12")
	assert.Contains(t, html, "s3cret")
}

func TestRenderFatigueAlert(t *testing.T) {
	m := newMailer(t)

	_, subject, html, err := m.Render(encode(t, domain.MailMessage{
		Type: "fatigue_alert",
		To:   "wangwei@example.com",
		Data: domain.FatigueAlertMailData{
			FullName:         "王伟",
			AnalysisID:       42,
			AnalysisName:     "红眼航班",
			MinEffectiveness: 63.25,
			TimeOfMin:        1800,
			OverallRiskLevel: domain.RiskHigh,
			RiskyDuties: []domain.DutyDaySummary{
				{DutyIndex: 1, StartMinutes: 1320, EndMinutes: 1800, MinEffectiveness: 63.25, RiskLevel: domain.RiskHigh, TimeBelowThresholdMinutes: 95},
			},
		},
	}))
	require.NoError(t, err)

	assert.Contains(t, subject, "疲劳预警")
	assert.Contains(t, html, "红眼航班")
	assert.Contains(t, html, "63.2%")
	assert.Contains(t, html, "第 1 天 06:00")
	assert.Contains(t, html, "第 2 段")
	assert.Contains(t, html, "95 分钟")
}

func TestRenderRejectsMalformedMessages(t *testing.T) {
	m := newMailer(t)

	for _, body := range [][]byte{
		[]byte("not json"),
		encode(t, domain.MailMessage{Type: "reset_password", To: "a@example.com"}),
		encode(t, domain.MailMessage{Type: "create_user", To: ""}),
		[]byte(`{"type":"fatigue_alert","to":"a@example.com","data":{"minEffectiveness":"low"}}`),
	} {
		_, _, _, err := m.Render(body)
		assert.True(t, errors.Is(err, ErrMalformedMessage), string(body))
	}
}

func TestBuild(t *testing.T) {
	m := newMailer(t)

	msg, err := m.Build(encode(t, domain.MailMessage{
		Type: "create_user",
		To:   "wangwei@example.com",
		Data: domain.CreateUserMailData{FullName: "王伟", Username: "wangw12", Password: "s3cret"},
	}))
	require.NoError(t, err)
	require.NotNil(t, msg)

	_, err = m.Build(encode(t, domain.MailMessage{Type: "create_user", To: "not an address"}))
	assert.True(t, errors.Is(err, ErrMalformedMessage))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "第 0 天 06:00", FormatElapsed(360))
	assert.Equal(t, "第 1 天 02:30", FormatElapsed(1590))
	assert.Equal(t, "第 -1 天 23:00", FormatElapsed(-60))
}

func TestRiskLabel(t *testing.T) {
	assert.Equal(t, "高", RiskLabel(domain.RiskHigh))
	assert.Equal(t, "unknown", RiskLabel(domain.RiskLevel("unknown")))
}

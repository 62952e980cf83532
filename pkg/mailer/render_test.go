package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tpl "github.com/oksasatya/factory-erp/pkg/mailer/templates"
)

func TestRenderAccountCreated(t *testing.T) {
	b := tpl.Branding{AppName: "Factory ERP", CompanyName: "Acme Metals", AppURL: "https://erp.example"}
	job := EmailJob{
		To:       "gate@acme.test",
		Template: tpl.AccountCreated,
		Data:     tpl.NewAccountCreatedData(b, "Gate Keeper", "gate@acme.test", "gatekeeper"),
	}

	subject, text, html, err := Render(job)
	require.NoError(t, err)
	assert.Equal(t, "Your Factory ERP account is ready", subject)
	assert.Contains(t, text, "Role:  gatekeeper")
	assert.Contains(t, html, `href="https://erp.example"`)
}

func TestRenderLoginNotificationEscapesHTML(t *testing.T) {
	job := EmailJob{
		To:       "acc@acme.test",
		Template: tpl.LoginNotification,
		Data: tpl.NewLoginNotificationData(tpl.Branding{}, "Acc", "acc@acme.test", "accountant",
			tpl.WithIP("10.0.0.7"), tpl.WithUserAgent("<script>"), tpl.WithTime(time.Unix(0, 0))),
	}

	subject, text, html, err := Render(job)
	require.NoError(t, err)
	assert.Equal(t, "New sign-in to ERP", subject)
	assert.Contains(t, text, "IP address: 10.0.0.7")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderRawAndUnknown(t *testing.T) {
	s, txt, h, err := Render(EmailJob{To: "x@y.z", Subject: "hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	assert.Equal(t, "body", txt)
	assert.Empty(t, h)

	_, _, _, err = Render(EmailJob{To: "x@y.z", Template: "nope"})
	assert.Error(t, err)
}

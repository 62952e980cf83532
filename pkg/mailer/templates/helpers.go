package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = strings.TrimSpace(ip) } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}

// Branding carries the app-level fields shared by all templates.
type Branding struct {
	AppName     string
	CompanyName string
	AppURL      string
}

func newData(b Branding, name, email, role string, opts ...Option) map[string]any {
	d := EmailData{
		Name:        name,
		Email:       email,
		Role:        role,
		AppName:     b.AppName,
		CompanyName: b.CompanyName,
		AppURL:      b.AppURL,
	}
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}

func NewAccountCreatedData(b Branding, name, email, role string, opts ...Option) map[string]any {
	return newData(b, name, email, role, opts...)
}

func NewLoginNotificationData(b Branding, name, email, role string, opts ...Option) map[string]any {
	return newData(b, name, email, role, opts...)
}

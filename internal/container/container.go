// Package container holds the process-wide infrastructure handles built in main
// and handed to the router. Optional integrations are nil when not configured.
package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/factory-erp/config"
	"github.com/oksasatya/factory-erp/internal/application"
	"github.com/oksasatya/factory-erp/internal/domain/rbac"
	"github.com/oksasatya/factory-erp/internal/infrastructure/persistence"
	"github.com/oksasatya/factory-erp/pkg/helpers"
	tpl "github.com/oksasatya/factory-erp/pkg/mailer/templates"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *persistence.DB
	JWT    *helpers.JWTManager
	Policy *rbac.Policy

	Redis  *redis.Client
	GCS    *storage.Client
	Rabbit *helpers.RabbitPublisher
	ES     *elasticsearch.Client
}

// Jobs returns the email job publisher, or nil when mail is off.
func (c *Container) Jobs() application.JobPublisher {
	if c.Rabbit == nil || !c.Config.MailSendEnabled {
		return nil
	}
	return c.Rabbit
}

func (c *Container) Branding() tpl.Branding {
	return tpl.Branding{AppName: c.Config.AppName, CompanyName: c.Config.CompanyName, AppURL: c.Config.AppURL}
}

package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/factory-erp/pkg/mailer"
)

// JobPublisher queues background jobs; helpers.RabbitPublisher implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

const enqueueTimeout = 2 * time.Second

// enqueueEmail publishes job when a publisher is wired. Delivery is best effort
// and bounded so a slow broker never holds up the request.
func enqueueEmail(ctx context.Context, jobs JobPublisher, logger *logrus.Logger, job mailer.EmailJob) {
	if jobs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, enqueueTimeout)
	defer cancel()
	if err := jobs.PublishJSON(ctx, job); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Warn("enqueue email failed")
	}
}

package mailer

import tpl "github.com/oksasatya/factory-erp/pkg/mailer/templates"

// Render resolves a job into subject, text and html bodies.
func Render(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	job.Normalize()
	return tpl.Render(job.Template, job.Data)
}

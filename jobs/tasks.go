// Package jobs holds the background task definitions and the Asynq
// worker plumbing around them.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeDocumentEmail sends a document to its customer by email.
	TaskTypeDocumentEmail = "document:email"
	// TaskTypeOverdueScan flips unpaid invoices past due to OVERDUE.
	TaskTypeOverdueScan = "invoices:overdue_scan"
)

// DocumentEmailPayload identifies the document and recipient.
type DocumentEmailPayload struct {
	DocumentID int64  `json:"document_id"`
	To         string `json:"to"`
}

// NewDocumentEmailTask constructs the Asynq task for one email send.
func NewDocumentEmailTask(payload DocumentEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDocumentEmail, data, asynq.Queue(QueueDefault)), nil
}

// NewOverdueScanTask constructs the scheduled overdue-scan task. The
// payload is empty; the scan always covers everything currently due.
func NewOverdueScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeOverdueScan, nil, asynq.Queue(QueueDefault))
}

// Mailer delivers one plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer is the production Mailer, pointed at a relay such as
// Mailpit in development.
type SMTPMailer struct {
	Addr string
	From string
}

func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{Addr: fmt.Sprintf("%s:%d", host, port), From: from}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.From, to, subject, body)
	if err := smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("jobs: send mail to %s: %w", to, err)
	}
	return nil
}

package email

import "context"

// Attachment is an in-memory document to attach to a notification.
// Generated PDFs are attached this way without touching disk.
type Attachment struct {
	Name string
	Data []byte
}

// Service dispatches notifications to applicants. Dispatch is best-effort:
// it runs after the state change has committed and its failure is logged,
// never propagated to the deciding actor.
type Service interface {
	Send(ctx context.Context, to, subject, body string) error
	SendWithAttachment(ctx context.Context, to, subject, body string, attachment Attachment) error
	SendWithFile(ctx context.Context, to, subject, body, path string) error
}

package model

import "context"

// Mailer dispatches authentication emails. Delivery itself is an external
// collaborator; implementations only construct and hand off the message.
type Mailer interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

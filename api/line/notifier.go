package line

import "context"

// Notifier defines the interface for pushing a text message to a user.
type Notifier interface {
	Push(ctx context.Context, userID, text string) error
}

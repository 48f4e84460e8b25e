package session

import (
	"context"
	"fmt"
)

// Message is a user-visible error queued for a view.
type Message struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ArticleID string `json:"article_id,omitempty"`
}

// ErrorQueue keeps display errors per destination view inside the session,
// so the page the user lands on next can render them once.
type ErrorQueue struct {
	store Store
}

func NewErrorQueue(store Store) *ErrorQueue {
	return &ErrorQueue{store: store}
}

func errorsKey(view string) string { return "Errors:" + view }

func (q *ErrorQueue) AddErrorToDisplay(ctx context.Context, sessionID, view string, msg Message) error {
	var queued []Message
	if _, err := q.store.Get(ctx, sessionID, errorsKey(view), &queued); err != nil {
		return fmt.Errorf("load queued errors: %w", err)
	}

	queued = append(queued, msg)
	return q.store.Set(ctx, sessionID, errorsKey(view), queued)
}

// TakeErrors returns and clears the queue for view.
func (q *ErrorQueue) TakeErrors(ctx context.Context, sessionID, view string) ([]Message, error) {
	var queued []Message
	found, err := q.store.Get(ctx, sessionID, errorsKey(view), &queued)
	if err != nil {
		return nil, fmt.Errorf("load queued errors: %w", err)
	}
	if !found {
		return nil, nil
	}

	if err := q.store.Delete(ctx, sessionID, errorsKey(view)); err != nil {
		return nil, err
	}
	return queued, nil
}

package storage

import (
	"context"
	"io"
	"time"
)

// Attachment describes one stored object belonging to a task.
type Attachment struct {
	Key          string
	Name         string
	Size         int64
	LastModified *time.Time
}

// Service stores task attachments in remote object storage. Attachments are
// keyed per task so a task's whole set can be listed and removed by prefix.
type Service interface {
	Upload(ctx context.Context, taskID, filename string, body io.Reader) (string, error)
	List(ctx context.Context, taskID string) ([]Attachment, error)
	DeleteAll(ctx context.Context, taskID string) error
}

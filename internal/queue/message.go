// Package queue moves outbound emails through RabbitMQ: the API publishes
// EmailJob messages and cmd/notifier consumes them.
package queue

import (
    "encoding/json"
    "fmt"
    "time"

    "github.com/iliyamo/tourist-event-booking/internal/notify"
)

// DefaultQueue is the durable queue carrying email jobs.
const DefaultQueue = "email.outbound"

// EmailJob is the message body published for every outbound email.
type EmailJob struct {
    ID       string       `json:"id"`
    Email    notify.Email `json:"email"`
    QueuedAt string       `json:"queued_at"`
}

func encodeJob(id string, e notify.Email, now time.Time) ([]byte, error) {
    return json.Marshal(EmailJob{ID: id, Email: e, QueuedAt: now.UTC().Format(time.RFC3339)})
}

func decodeJob(body []byte) (EmailJob, error) {
    var job EmailJob
    if err := json.Unmarshal(body, &job); err != nil {
        return EmailJob{}, fmt.Errorf("unmarshal: %w", err)
    }
    if job.Email.To == "" {
        return EmailJob{}, fmt.Errorf("job %s has no recipient", job.ID)
    }
    return job, nil
}

package worker

// Jobs that exhaust their retries are parked on a per-queue Redis list so an
// operator can inspect or replay them by hand.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const dlqPrefix = "dlq:"

// DLQKey returns the dead-letter list backing a queue.
func DLQKey(queue string) string { return dlqPrefix + queue }

// dlqEntry keeps the original payload next to what failed, when and why.
type dlqEntry struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failedAt"`
	Attempts int             `json:"attempts"`
}

// parkJob moves an exhausted job to its queue's dead-letter list. A Redis
// error here is logged and swallowed: the job already failed maxJobAttempts
// times and the worker must keep draining the queue.
func parkJob(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	entry := dlqEntry{
		Queue:    queue,
		Type:     job.Type,
		Payload:  job.Payload,
		Reason:   cause.Error(),
		FailedAt: time.Now().UTC(),
		Attempts: job.Attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("cannot marshal dead-letter entry")
		return
	}
	if err := rdb.LPush(ctx, DLQKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("cannot park job in dead-letter list")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Err(cause).
		Msg("job parked in dead-letter list")
}

// DLQLength reports how many jobs are parked for a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQKey(queue)).Result()
}

package offlinequeue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrFlushInProgress возвращается при повторном вызове Flush,
	// пока предыдущий не завершился
	ErrFlushInProgress = errors.New("offlinequeue: flush already in progress")
)

// SendFunc re-issues one queued entry verbatim. It returns the HTTP
// status code of the server's response; a non-nil error means the
// request never reached the server (connectivity failure).
type SendFunc func(ctx context.Context, entry Entry) (int, error)

// OnlineFunc reports whether the client currently believes it is online.
type OnlineFunc func() bool

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// FlushResult is what one flush pass accomplished.
type FlushResult struct {
	// Synced - записи, принятые сервером и убранные из очереди
	Synced int
	// Dropped - записи, отвергнутые сервером как безнадёжные (4xx кроме 401)
	Dropped int
	// AuthExpired выставляется, когда flush остановился на 401:
	// продолжать можно только после повторной аутентификации
	AuthExpired bool
}

// Queue is a durable FIFO of pending write operations. Mutations are
// appended when a write fails on connectivity and replayed in order by
// Flush once the server is reachable again.
//
// Replay is at-least-once-attempt, best-effort: a queued write applied
// after the world changed may no longer match the user's intent, and
// the server's rejection then surfaces as a dropped entry rather than
// any attempt at merging.
type Queue struct {
	mu      sync.Mutex
	entries []Entry

	store    Store
	online   OnlineFunc
	log      Logger
	flushing atomic.Bool
}

// NewQueue loads the persisted queue from store. online may be nil, in
// which case Flush always assumes connectivity.
func NewQueue(store Store, online OnlineFunc, log Logger) (*Queue, error) {
	entries, err := store.Load()
	if err != nil {
		return nil, err
	}

	q := &Queue{
		entries: entries,
		store:   store,
		online:  online,
		log:     log,
	}

	if len(entries) > 0 {
		log.Info("Queue loaded with %d pending mutation(s)", len(entries))
	}

	return q, nil
}

// Enqueue appends a mutation and persists the queue. It returns the new
// queue length. On a persist failure the entry is kept in memory so the
// intent survives at least until the process exits.
func (q *Queue) Enqueue(path, method string, body json.RawMessage, description string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	entry := Entry{
		ID:          newEntryID(now),
		CreatedAt:   now,
		Path:        path,
		Method:      method,
		Body:        body,
		Description: description,
	}
	q.entries = append(q.entries, entry)

	if err := q.persistLocked(); err != nil {
		q.log.Warn("Failed to persist queue after enqueue: %v", err)
		return len(q.entries), err
	}

	q.log.Info("Queued mutation %q (%s %s), %d pending", description, method, path, len(q.entries))
	return len(q.entries), nil
}

// Flush replays the queued mutations strictly FIFO over the snapshot
// taken at the start. Per entry: 2xx removes it and continues; 5xx or a
// connectivity failure stops the flush, leaving the entry and everything
// behind it queued; 401 stops with AuthExpired; any other status drops
// the entry and continues.
//
// A concurrent call while a flush is running returns ErrFlushInProgress.
// A flush while offline is a no-op.
func (q *Queue) Flush(ctx context.Context, send SendFunc) (FlushResult, error) {
	if !q.flushing.CompareAndSwap(false, true) {
		return FlushResult{}, ErrFlushInProgress
	}
	defer q.flushing.Store(false)

	if q.online != nil && !q.online() {
		q.log.Info("Flush skipped: client is offline")
		return FlushResult{}, nil
	}

	snapshot := q.Entries()
	if len(snapshot) == 0 {
		return FlushResult{}, nil
	}

	q.log.Info("Flushing %d pending mutation(s)", len(snapshot))

	var result FlushResult
	for _, entry := range snapshot {
		status, err := send(ctx, entry)
		if err != nil {
			// Сеть всё ещё лежит, остальные записи ждут следующего flush
			q.log.Warn("Flush stopped on %q: %v (%d left queued)", entry.Description, err, q.Len())
			return result, nil
		}

		switch {
		case status >= 200 && status < 300:
			if err := q.remove(entry.ID); err != nil {
				return result, err
			}
			result.Synced++
			q.log.Info("Synced %q (%s %s)", entry.Description, entry.Method, entry.Path)

		case status == http.StatusUnauthorized:
			result.AuthExpired = true
			q.log.Warn("Flush stopped on %q: session expired (%d left queued)", entry.Description, q.Len())
			return result, nil

		case status >= 500:
			// Сервер нездоров, повтор остальных сейчас бессмысленен
			q.log.Warn("Flush stopped on %q: server returned %d (%d left queued)",
				entry.Description, status, q.Len())
			return result, nil

		default:
			// Запись больше неприменима (цель удалена, слот занят и т.п.)
			if err := q.remove(entry.ID); err != nil {
				return result, err
			}
			result.Dropped++
			q.log.Warn("Dropped %q: server returned %d", entry.Description, status)
		}
	}

	return result, nil
}

// Entries returns a copy of the queue in replay order.
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Len returns the number of pending mutations.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Clear drops all pending mutations and persists the empty queue.
func (q *Queue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.entries = q.entries[:0]
	return q.persistLocked()
}

func (q *Queue) remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	q.entries = kept

	return q.persistLocked()
}

func (q *Queue) persistLocked() error {
	entries := make([]Entry, len(q.entries))
	copy(entries, q.entries)
	return q.store.Save(entries)
}

package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "boilerfunnel/internal/app/outbox"
	"boilerfunnel/internal/app/uow"
	infraoutbox "boilerfunnel/internal/infra/outbox"
)

type queued struct {
	msg       infraoutbox.Message
	nextTry   time.Time
	claimedBy string
}

// Outbox stages records per unit of work until Flush and then queues them
// for the relay worker, mirroring the Mongo store's lifecycle without
// persistence. Records added outside a unit share one anonymous stage.
type Outbox struct {
	mu     sync.Mutex
	staged map[uow.UnitOfWork][]appoutbox.EventRecord
	queue  []*queued
}

func NewOutbox() *Outbox {
	return &Outbox{staged: make(map[uow.UnitOfWork][]appoutbox.EventRecord)}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.staged == nil {
		o.staged = make(map[uow.UnitOfWork][]appoutbox.EventRecord)
	}
	key := stageKey(ctx)
	o.staged[key] = append(o.staged[key], record)
	return nil
}

// Flush queues only the records staged by the unit of work bound to ctx.
func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	key := stageKey(ctx)
	now := time.Now()
	for _, rec := range o.staged[key] {
		o.queue = append(o.queue, &queued{msg: infraoutbox.MessageFromRecord(rec), nextTry: now})
	}
	delete(o.staged, key)
	return nil
}

// discard drops records staged by a unit that rolled back.
func (o *Outbox) discard(unit uow.UnitOfWork) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.staged, unit)
}

func stageKey(ctx context.Context) uow.UnitOfWork {
	unit, _ := uow.FromContext(ctx)
	return unit
}

func (o *Outbox) Claim(_ context.Context, workerID string) (*infraoutbox.Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for _, q := range o.queue {
		if q.claimedBy != "" || q.nextTry.After(now) {
			continue
		}
		q.claimedBy = workerID
		msg := q.msg
		return &msg, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(_ context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	kept := o.queue[:0]
	for _, q := range o.queue {
		if q.msg.ID != id {
			kept = append(kept, q)
		}
	}
	o.queue = kept
	return nil
}

func (o *Outbox) MarkFailed(_ context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, q := range o.queue {
		if q.msg.ID == id {
			q.claimedBy = ""
			q.nextTry = next
			q.msg.Attempts++
			q.msg.LastError = errMsg
		}
	}
	return nil
}

// Pending reports how many flushed records await publication.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

var (
	_ appoutbox.Outbox  = (*Outbox)(nil)
	_ infraoutbox.Store = (*Outbox)(nil)
)

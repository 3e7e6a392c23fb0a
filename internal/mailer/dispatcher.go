package mailer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sendTimeout = 10 * time.Second

type verificationTask struct {
	email string
	link  string
}

// Dispatcher hands verification mail to a background worker so the
// request path never waits on the mail provider. A send failure is
// logged, never surfaced to the caller.
type Dispatcher struct {
	mailer Mailer
	tasks  chan verificationTask
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(m Mailer, queueLen int) *Dispatcher {
	d := &Dispatcher{
		mailer: m,
		tasks:  make(chan verificationTask, queueLen),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// EnqueueVerification queues a verification email. Non-blocking: when
// the queue is full, or the dispatcher is already closed, the task is
// dropped and logged.
func (d *Dispatcher) EnqueueVerification(email, link string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		slog.Warn("mail dispatcher closed, dropping verification email", "to", email)
		return
	}
	select {
	case d.tasks <- verificationTask{email: email, link: link}:
	default:
		slog.Warn("mail queue full, dropping verification email", "to", email)
	}
}

// Close stops accepting tasks and waits for queued mail to drain.
// Safe to call concurrently with EnqueueVerification; later enqueues
// are dropped instead of panicking on the closed channel.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.wg.Wait()
		return
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for t := range d.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.mailer.SendVerificationEmail(ctx, t.email, t.link); err != nil {
			slog.Error("verification email failed", "to", t.email, "error", err)
		}
		cancel()
	}
}

package mailer

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	calls int
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, email, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return errors.New("provider down")
	}
	m.sent = append(m.sent, email)
	return nil
}

func TestDispatcher_DeliversQueuedMail(t *testing.T) {
	m := &recordingMailer{}
	d := NewDispatcher(m, 8)

	d.EnqueueVerification("a@example.com", "http://localhost/verify?email=a@example.com&token=t1")
	d.EnqueueVerification("b@example.com", "http://localhost/verify?email=b@example.com&token=t2")
	d.Close()

	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, m.sent)
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	m := &recordingMailer{fail: true}
	d := NewDispatcher(m, 8)

	d.EnqueueVerification("a@example.com", "link")
	d.Close()

	assert.Equal(t, 1, m.calls)
	assert.Empty(t, m.sent)
}

func TestDispatcher_EnqueueAfterCloseDoesNotPanic(t *testing.T) {
	m := &recordingMailer{}
	d := NewDispatcher(m, 8)
	d.Close()

	assert.NotPanics(t, func() {
		d.EnqueueVerification("late@example.com", "link")
	})
	assert.Empty(t, m.sent)
}

func TestVerificationLink(t *testing.T) {
	link := VerificationLink("http://localhost:8080", "a@example.com", "tok")
	assert.Equal(t, "http://localhost:8080/verify?email=a%40example.com&token=tok", link)
}

func TestVerificationLink_PlusAddressSurvivesRoundTrip(t *testing.T) {
	link := VerificationLink("http://localhost:8080", "jane+tag@example.com", "tok-1")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "jane+tag@example.com", u.Query().Get("email"))
	assert.Equal(t, "tok-1", u.Query().Get("token"))
}

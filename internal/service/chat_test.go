package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fasalrakshak/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// jpegDataURI is a syntactically valid image payload for tests
const jpegDataURI = "data:image/jpeg;base64,/9j/AAAA"

// fakeResponder records calls and returns canned replies
type fakeResponder struct {
	mu         sync.Mutex
	textCalls  int
	imageCalls int
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeResponder) Respond(_ context.Context, question string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textCalls++
	f.lastPrompt = question
	return f.reply, f.err
}

func (f *fakeResponder) RespondWithImage(_ context.Context, question string, _ model.InlineImage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageCalls++
	f.lastPrompt = question
	return f.reply, f.err
}

// memoryUsage is an in-memory UsageStore with the capped-increment contract
type memoryUsage struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func newMemoryUsage() *memoryUsage {
	return &memoryUsage{counts: make(map[string]int)}
}

func (m *memoryUsage) GetCount(_ context.Context, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[email], nil
}

func (m *memoryUsage) IncrementWithCap(_ context.Context, email string, cap int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, false, m.err
	}
	if m.counts[email] >= cap {
		return cap, false, nil
	}
	m.counts[email]++
	return m.counts[email], true, nil
}

// memoryHistory is an in-memory ChatHistoryStore
type memoryHistory struct {
	mu      sync.Mutex
	entries []model.ChatEntry
	err     error
}

func (m *memoryHistory) Save(_ context.Context, entry *model.ChatEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryHistory) ListByEmail(_ context.Context, email string, limit int) ([]model.ChatEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ChatEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].Email == email {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func newChatFixture(reply string) (*ChatService, *fakeResponder, *memoryUsage, *memoryHistory) {
	responder := &fakeResponder{reply: reply}
	usage := newMemoryUsage()
	history := &memoryHistory{}
	svc := NewChatService(responder, usage, history, 3, zap.NewNop())
	return svc, responder, usage, history
}

func TestSubmit_RequiresEmail(t *testing.T) {
	svc, responder, _, _ := newChatFixture("hello")

	_, err := svc.Submit(context.Background(), ChatRequest{Message: "hi"})

	assert.ErrorIs(t, err, ErrMissingIdentity)
	assert.Equal(t, 0, responder.textCalls)
}

func TestSubmit_RequiresMessageOrImage(t *testing.T) {
	svc, responder, _, _ := newChatFixture("hello")

	_, err := svc.Submit(context.Background(), ChatRequest{Email: "farmer@example.com"})

	assert.ErrorIs(t, err, ErrEmptyRequest)
	assert.Equal(t, 0, responder.textCalls)
	assert.Equal(t, 0, responder.imageCalls)
}

func TestSubmit_TextOnlyDoesNotTouchUsage(t *testing.T) {
	svc, responder, usage, history := newChatFixture("use neem oil")

	reply, err := svc.Submit(context.Background(), ChatRequest{
		Email:   "farmer@example.com",
		Message: "how do I treat aphids?",
	})

	require.NoError(t, err)
	assert.Equal(t, "use neem oil", reply)
	assert.Equal(t, 1, responder.textCalls)
	assert.Equal(t, 0, usage.counts["farmer@example.com"])
	assert.Len(t, history.entries, 1)
	assert.False(t, history.entries[0].HasImage)
}

func TestSubmit_ImageIncrementsAfterSuccess(t *testing.T) {
	svc, responder, usage, history := newChatFixture("early blight detected")

	reply, err := svc.Submit(context.Background(), ChatRequest{
		Email:   "farmer@example.com",
		Message: "what is wrong with this leaf?",
		Image:   jpegDataURI,
	})

	require.NoError(t, err)
	assert.Equal(t, "early blight detected", reply)
	assert.Equal(t, 1, responder.imageCalls)
	assert.Equal(t, 1, usage.counts["farmer@example.com"])
	require.Len(t, history.entries, 1)
	assert.True(t, history.entries[0].HasImage)
}

func TestSubmit_ImageOnlyUsesDefaultQuestion(t *testing.T) {
	svc, responder, _, _ := newChatFixture("looks healthy")

	_, err := svc.Submit(context.Background(), ChatRequest{
		Email: "farmer@example.com",
		Image: jpegDataURI,
	})

	require.NoError(t, err)
	assert.Equal(t, defaultImageQuestion, responder.lastPrompt)
}

func TestSubmit_QuotaBlocksBeforeResponder(t *testing.T) {
	svc, responder, usage, _ := newChatFixture("reply")
	usage.counts["farmer@example.com"] = 3

	_, err := svc.Submit(context.Background(), ChatRequest{
		Email: "farmer@example.com",
		Image: jpegDataURI,
	})

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 0, responder.imageCalls)
	assert.Equal(t, 3, usage.counts["farmer@example.com"])
}

func TestSubmit_ResponderFailureDoesNotConsumeQuota(t *testing.T) {
	svc, responder, usage, history := newChatFixture("")
	responder.err = errors.New("model exploded")

	_, err := svc.Submit(context.Background(), ChatRequest{
		Email: "farmer@example.com",
		Image: jpegDataURI,
	})

	assert.Error(t, err)
	assert.Equal(t, 0, usage.counts["farmer@example.com"])
	assert.Empty(t, history.entries)
}

func TestSubmit_InvalidImageRejected(t *testing.T) {
	svc, responder, usage, _ := newChatFixture("reply")

	_, err := svc.Submit(context.Background(), ChatRequest{
		Email: "farmer@example.com",
		Image: "data:image/jpeg;base64,!!!not-base64!!!",
	})

	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Equal(t, 0, responder.imageCalls)
	assert.Equal(t, 0, usage.counts["farmer@example.com"])
}

func TestSubmit_HistoryFailureDoesNotFailChat(t *testing.T) {
	svc, _, _, history := newChatFixture("reply")
	history.err = errors.New("db down")

	reply, err := svc.Submit(context.Background(), ChatRequest{
		Email:   "farmer@example.com",
		Message: "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "reply", reply)
}

func TestImageCount(t *testing.T) {
	svc, _, usage, _ := newChatFixture("reply")
	usage.counts["farmer@example.com"] = 2

	count, err := svc.ImageCount(context.Background(), "farmer@example.com")

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = svc.ImageCount(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

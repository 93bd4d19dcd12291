package chat_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	model "github.com/yudhapratama/desaku/backend/internal/model/chat"
	"github.com/yudhapratama/desaku/backend/internal/service/auth"
	chatservice "github.com/yudhapratama/desaku/backend/internal/service/chat"
	"github.com/yudhapratama/desaku/backend/internal/service/responder"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

// fakeStore counts calls and can be told to fail, so tests can assert on
// the session's store interaction.
type fakeStore struct {
	mu          sync.Mutex
	messages    map[string][]model.Message
	listCalls   int
	appendCalls int
	countCalls  int
	failList    bool
	failAppend  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string][]model.Message)}
}

func (s *fakeStore) ListMessages(_ context.Context, conversationID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.failList {
		return nil, store.ErrUnavailable
	}
	copied := make([]model.Message, len(s.messages[conversationID]))
	copy(copied, s.messages[conversationID])
	return copied, nil
}

func (s *fakeStore) Append(_ context.Context, conversationID, text string, sender model.SenderKind) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendCalls++
	if s.failAppend {
		return model.Message{}, store.ErrUnavailable
	}
	msg := model.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Text:           text,
		Sender:         sender,
		CreatedAt:      time.Now().UTC(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	return msg, nil
}

func (s *fakeStore) CountMessages(_ context.Context, conversationID string, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countCalls++
	if s.failList {
		return 0, store.ErrUnavailable
	}
	count := len(s.messages[conversationID])
	if limit > 0 && count > limit {
		count = limit
	}
	return count, nil
}

func (s *fakeStore) calls() (list, append_, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls, s.appendCalls, s.countCalls
}

// gateDelay blocks the composing pause until the test releases it.
type gateDelay struct {
	release chan struct{}
}

func (d *gateDelay) Wait(context.Context, time.Duration, time.Duration) {
	<-d.release
}

func newSession(t *testing.T, opts chatservice.Options) *chatservice.Session {
	t.Helper()
	if opts.Responder == nil {
		opts.Responder = responder.New()
	}
	if opts.Delay == nil {
		opts.Delay = chatservice.NoDelay{}
	}
	session, err := chatservice.NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession err: %v", err)
	}
	return session
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func seedConversation(t *testing.T, s *fakeStore, conversationID string) {
	t.Helper()
	if _, err := s.Append(context.Background(), conversationID, "pesan lama", model.SenderUser); err != nil {
		t.Fatalf("seed append err: %v", err)
	}
}

func TestSubmitAppendsUserThenBot(t *testing.T) {
	fs := newFakeStore()
	conversationID := uuid.NewString()
	seedConversation(t, fs, conversationID)

	session := newSession(t, chatservice.Options{
		Store:          fs,
		ConversationID: conversationID,
		Authenticated:  true,
	})
	session.Start(context.Background())
	before := len(session.Messages())

	session.SetInput("jam operasional kantor?")
	session.Submit(context.Background())

	waitFor(t, "bot reply", func() bool {
		return len(session.Messages()) == before+2 && !session.IsComposing()
	})

	messages := session.Messages()
	userMsg := messages[len(messages)-2]
	botMsg := messages[len(messages)-1]
	if userMsg.Sender != model.SenderUser || userMsg.Text != "jam operasional kantor?" {
		t.Fatalf("unexpected user message: %+v", userMsg)
	}
	if botMsg.Sender != model.SenderBot {
		t.Fatalf("unexpected bot message: %+v", botMsg)
	}
	if botMsg.Text != responder.New().Reply("jam operasional kantor?") {
		t.Fatal("bot reply does not match the canned template")
	}
	if session.Input() != "" {
		t.Fatal("input buffer should be cleared on submit")
	}
}

func TestSubmitWhitespaceIsNoop(t *testing.T) {
	fs := newFakeStore()
	conversationID := uuid.NewString()
	seedConversation(t, fs, conversationID)

	session := newSession(t, chatservice.Options{
		Store:          fs,
		ConversationID: conversationID,
		Authenticated:  true,
	})
	session.Start(context.Background())
	before := len(session.Messages())
	_, appendsBefore, _ := fs.calls()

	for _, input := range []string{"", "   ", "\n\t "} {
		session.SetInput(input)
		session.Submit(context.Background())
	}

	if len(session.Messages()) != before {
		t.Fatal("whitespace submit changed the message list")
	}
	if session.IsComposing() {
		t.Fatal("whitespace submit entered composing")
	}
	if _, appends, _ := fs.calls(); appends != appendsBefore {
		t.Fatal("whitespace submit reached the store")
	}
}

func TestGuestSessionSyntheticWelcome(t *testing.T) {
	fs := newFakeStore()
	session := newSession(t, chatservice.Options{Store: fs})

	session.Start(context.Background())

	messages := session.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected exactly one welcome message, got %d", len(messages))
	}
	if messages[0].Sender != model.SenderBot {
		t.Fatalf("welcome sender = %q, want bot", messages[0].Sender)
	}
	if messages[0].ID != "" {
		t.Fatal("guest welcome must not be persisted")
	}
	if list, appends, count := fs.calls(); list+appends+count != 0 {
		t.Fatalf("guest session reached the store: list=%d append=%d count=%d", list, appends, count)
	}
}

func TestGuestSubmitRecordsLoginNotice(t *testing.T) {
	fs := newFakeStore()
	session := newSession(t, chatservice.Options{Store: fs})
	session.Start(context.Background())

	session.SetInput("halo")
	session.Submit(context.Background())

	notices := session.Notices()
	if len(notices) != 1 || notices[0] != chatservice.NoticeLoginRequired {
		t.Fatalf("expected login notice, got %v", notices)
	}
	if _, appends, _ := fs.calls(); appends != 0 {
		t.Fatal("guest submit reached the store")
	}
}

func TestNewConversationGetsWelcome(t *testing.T) {
	fs := newFakeStore()
	conversationID := uuid.NewString()

	session := newSession(t, chatservice.Options{
		Store:          fs,
		ConversationID: conversationID,
		Authenticated:  true,
	})
	session.Start(context.Background())

	messages := session.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(messages))
	}
	if messages[0].Sender != model.SenderBot {
		t.Fatalf("welcome sender = %q, want bot", messages[0].Sender)
	}
	if messages[0].Text != responder.New().Welcome() {
		t.Fatal("welcome text does not match the fixed template")
	}
	if messages[0].ID == "" {
		t.Fatal("authenticated welcome must be persisted")
	}

	stored, err := fs.ListMessages(context.Background(), conversationID)
	if err != nil {
		t.Fatalf("ListMessages err: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected one stored row, got %d", len(stored))
	}
}

func TestExistingConversationSkipsWelcome(t *testing.T) {
	fs := newFakeStore()
	conversationID := uuid.NewString()
	seedConversation(t, fs, conversationID)

	session := newSession(t, chatservice.Options{
		Store:          fs,
		ConversationID: conversationID,
		Authenticated:  true,
	})
	session.Start(context.Background())

	for _, msg := range session.Messages() {
		if msg.Text == responder.New().Welcome() {
			t.Fatal("welcome inserted into a non-empty conversation")
		}
	}
}

func TestHistoryLoadFailure(t *testing.T) {
	fs := newFakeStore()
	fs.failList = true

	session := newSession(t, chatservice.Options{
		Store:          fs,
		ConversationID: uuid.NewString(),
		Authenticated:  true,
	})
	session.Start(context.Background())

	if len(session.Messages()) != 0 {
		t.Fatal("expected empty message list after failed history load")
	}
	if session.IsLoadingHistory() {
		t.Fatal("loading flag stuck after failure")
	}
	notices := session.Notices()
	if len(notices) == 0 || notices[0] != chatservice.NoticeHistoryFailed {
		t.Fatalf("expected history notice, got %v", notices)
	}
}

func TestComposingRejectsReentrantSubmit(t *testing.T) {
	fs := newFakeStore()
	conversationID := uuid.NewString()
	seedConversation(t, fs, conversationID)

	gate := &gateDelay{release: make(chan struct{})}
	session := newSession(t, chatservice.Options{
		Store:          fs,
		Delay:          gate,
		ConversationID: conversationID,
		Authenticated:  true,
	})
	session.Start(context.Background())
	before := len(session.Messages())

	session.SetInput("a")
	session.Submit(context.Background())
	waitFor(t, "composing", session.IsComposing)

	session.SetInput("b")
	session.Submit(context.Background())
	if !session.IsComposing() {
		t.Fatal("composing flag dropped by rejected submit")
	}

	close(gate.release)
	waitFor(t, "round trip", func() bool {
		return !session.IsComposing()
	})

	messages := session.Messages()
	if len(messages) != before+2 {
		t.Fatalf("expected one round trip, got %d new messages", len(messages)-before)
	}
	if messages[before].Text != "a" {
		t.Fatalf("processed message = %q, want %q", messages[before].Text, "a")
	}
	if messages[before+1].Text != responder.New().Reply("a") {
		t.Fatal("reply does not correspond to the first submission")
	}
}

func TestSubmitAppendFailure(t *testing.T) {
	fs := newFakeStore()
	conversationID := uuid.NewString()
	seedConversation(t, fs, conversationID)

	session := newSession(t, chatservice.Options{
		Store:          fs,
		ConversationID: conversationID,
		Authenticated:  true,
	})
	session.Start(context.Background())
	before := len(session.Messages())

	fs.mu.Lock()
	fs.failAppend = true
	fs.mu.Unlock()

	session.SetInput("x")
	session.Submit(context.Background())

	if len(session.Messages()) != before {
		t.Fatal("failed submit must not grow the message list")
	}
	if session.IsComposing() {
		t.Fatal("failed submit must not enter composing")
	}
	notices := session.Notices()
	if len(notices) == 0 || notices[len(notices)-1] != chatservice.NoticeSendFailed {
		t.Fatalf("expected send-failed notice, got %v", notices)
	}
}

func TestAuthFeedLogoutRevokesSubmit(t *testing.T) {
	fs := newFakeStore()
	conversationID := uuid.NewString()
	seedConversation(t, fs, conversationID)

	feed := auth.NewFeed()
	session := newSession(t, chatservice.Options{
		Store:          fs,
		AuthFeed:       feed,
		ConversationID: conversationID,
		Authenticated:  true,
	})
	session.Start(context.Background())
	defer session.Close()

	feed.Publish(auth.Event{UserID: conversationID, LoggedIn: false})

	// Feed delivery is asynchronous; probe until the session rejects a
	// submit with the login notice.
	waitFor(t, "logout to apply", func() bool {
		session.SetInput("masih bisa?")
		session.Submit(context.Background())
		notices := session.Notices()
		return len(notices) > 0 && notices[len(notices)-1] == chatservice.NoticeLoginRequired
	})
	waitFor(t, "idle", func() bool { return !session.IsComposing() })

	before := len(session.Messages())
	session.SetInput("sudah keluar")
	session.Submit(context.Background())

	if len(session.Messages()) != before {
		t.Fatal("submit after logout reached the conversation")
	}
}

func TestEnterSubmitsWithoutShift(t *testing.T) {
	fs := newFakeStore()
	conversationID := uuid.NewString()
	seedConversation(t, fs, conversationID)

	session := newSession(t, chatservice.Options{
		Store:          fs,
		ConversationID: conversationID,
		Authenticated:  true,
	})
	session.Start(context.Background())
	before := len(session.Messages())

	session.SetInput("terima kasih")
	session.HandleEnter(context.Background(), true)
	if len(session.Messages()) != before {
		t.Fatal("shift+enter must not submit")
	}

	session.HandleEnter(context.Background(), false)
	waitFor(t, "round trip", func() bool {
		return len(session.Messages()) == before+2 && !session.IsComposing()
	})
}

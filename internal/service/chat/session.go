package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yudhapratama/desaku/backend/internal/model/chat"
	"github.com/yudhapratama/desaku/backend/internal/service/auth"
	"github.com/yudhapratama/desaku/backend/internal/service/responder"
	"github.com/yudhapratama/desaku/backend/internal/store"
)

var (
	ErrStoreRequired     = errors.New("message store is required")
	ErrResponderRequired = errors.New("responder is required")
)

// User-facing notices, shown as transient toasts by the widget.
const (
	NoticeHistoryFailed = "Riwayat chat gagal dimuat. Silakan muat ulang halaman."
	NoticeSendFailed    = "Pesan gagal terkirim. Silakan coba lagi."
	NoticeReplyFailed   = "Balasan gagal dimuat. Silakan coba lagi."
	NoticeLoginRequired = "Silakan masuk terlebih dahulu untuk menggunakan layanan chat."
)

// EventType labels a session event pushed to the presentation adapter.
type EventType string

const (
	EventHistory   EventType = "history"
	EventMessage   EventType = "message"
	EventComposing EventType = "composing"
	EventNotice    EventType = "notice"
)

// Event is a single state change observable by the presentation layer.
type Event struct {
	Type      EventType      `json:"type"`
	Messages  []chat.Message `json:"messages,omitempty"`
	Message   *chat.Message  `json:"message,omitempty"`
	Composing bool           `json:"composing,omitempty"`
	Notice    string         `json:"notice,omitempty"`
}

// Options configures a Session. Store and Responder are required; the rest
// have working defaults.
type Options struct {
	Store     store.MessageStore
	Responder *responder.Responder
	Delay     Delay
	Logger    *zap.Logger
	AuthFeed  *auth.Feed

	// ConversationID is the owning user's id. Empty for guest sessions.
	ConversationID string
	Authenticated  bool

	// DelayMin and DelayMax bound the simulated composing pause.
	DelayMin time.Duration
	DelayMax time.Duration

	// OnEvent receives session events. Called outside the session lock;
	// may be nil.
	OnEvent func(Event)
}

// Session orchestrates one conversation for one connected widget: it loads
// history, emits the welcome message once per conversation, persists user
// input and schedules the canned reply. All store failures are converted to
// notices; the session always settles back into an accepting state.
type Session struct {
	store     store.MessageStore
	responder *responder.Responder
	delay     Delay
	logger    *zap.Logger
	authFeed  *auth.Feed
	onEvent   func(Event)

	delayMin time.Duration
	delayMax time.Duration

	unsubscribe func()

	mu             sync.Mutex
	conversationID string
	authenticated  bool
	messages       []chat.Message
	notices        []string
	input          string
	composing      bool
	loading        bool
}

// NewSession validates the options and builds an idle session. Call Start
// to load history, and Close when the widget disconnects.
func NewSession(opts Options) (*Session, error) {
	if opts.Store == nil {
		return nil, ErrStoreRequired
	}
	if opts.Responder == nil {
		return nil, ErrResponderRequired
	}

	delay := opts.Delay
	if delay == nil {
		delay = UniformDelay{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	delayMin := opts.DelayMin
	delayMax := opts.DelayMax
	if delayMin <= 0 {
		delayMin = 1500 * time.Millisecond
	}
	if delayMax < delayMin {
		delayMax = 2500 * time.Millisecond
	}

	return &Session{
		store:          opts.Store,
		responder:      opts.Responder,
		delay:          delay,
		logger:         logger,
		authFeed:       opts.AuthFeed,
		onEvent:        opts.OnEvent,
		delayMin:       delayMin,
		delayMax:       delayMax,
		conversationID: opts.ConversationID,
		authenticated:  opts.Authenticated,
	}, nil
}

// Start hydrates the session. Authenticated sessions load history and insert
// the welcome message into empty conversations; guest sessions get a
// synthetic, never-persisted welcome. The emptiness check and the welcome
// insert are not transactional: two tabs bootstrapping the same conversation
// at once can each insert a welcome. Known and accepted.
func (s *Session) Start(ctx context.Context) {
	if s.authFeed != nil {
		ch, unsubscribe := s.authFeed.Subscribe()
		s.unsubscribe = unsubscribe
		go s.watchAuth(ch)
	}

	s.mu.Lock()
	authenticated := s.authenticated
	conversationID := s.conversationID
	s.mu.Unlock()

	if !authenticated {
		welcome := chat.Message{
			Text:      s.responder.Welcome(),
			Sender:    chat.SenderBot,
			CreatedAt: time.Now().UTC(),
		}
		s.mu.Lock()
		s.messages = append(s.messages, welcome)
		messages := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(Event{Type: EventHistory, Messages: messages})
		return
	}

	s.setLoading(true)
	defer s.setLoading(false)

	history, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		s.logger.Warn("failed to load chat history",
			zap.String("conversation_id", conversationID), zap.Error(err))
		s.notify(NoticeHistoryFailed)
		s.emit(Event{Type: EventHistory})
		return
	}

	s.mu.Lock()
	s.messages = history
	s.mu.Unlock()

	count, err := s.store.CountMessages(ctx, conversationID, 1)
	if err != nil {
		s.logger.Warn("failed to probe conversation",
			zap.String("conversation_id", conversationID), zap.Error(err))
	} else if count == 0 {
		welcome, err := s.store.Append(ctx, conversationID, s.responder.Welcome(), chat.SenderBot)
		if err != nil {
			s.logger.Warn("failed to persist welcome message",
				zap.String("conversation_id", conversationID), zap.Error(err))
		} else {
			s.mu.Lock()
			s.messages = append(s.messages, welcome)
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	messages := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(Event{Type: EventHistory, Messages: messages})
}

// SetInput replaces the input buffer.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

// Input returns the current input buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// HandleEnter mirrors the widget's enter-key behavior: enter submits,
// shift+enter keeps editing.
func (s *Session) HandleEnter(ctx context.Context, withShift bool) {
	if withShift {
		return
	}
	s.Submit(ctx)
}

// Submit validates the input buffer and runs one round trip: persist the
// user message, then persist and emit the canned reply after the composing
// delay. Empty input and re-entrant submits are silent no-ops; submitting
// while unauthenticated records a notice instead.
func (s *Session) Submit(ctx context.Context) {
	s.mu.Lock()
	text := strings.TrimSpace(s.input)
	if text == "" {
		s.mu.Unlock()
		return
	}
	if !s.authenticated {
		s.mu.Unlock()
		s.notify(NoticeLoginRequired)
		return
	}
	if s.composing {
		s.mu.Unlock()
		return
	}
	s.input = ""
	conversationID := s.conversationID
	s.mu.Unlock()

	msg, err := s.store.Append(ctx, conversationID, text, chat.SenderUser)
	if err != nil {
		s.logger.Warn("failed to persist user message",
			zap.String("conversation_id", conversationID), zap.Error(err))
		s.notify(NoticeSendFailed)
		return
	}
	s.appendMessage(msg)
	s.setComposing(true)

	// The reply must outlive the request that carried the submit; a widget
	// that disconnects mid-compose simply abandons the pending events.
	go s.compose(context.WithoutCancel(ctx), conversationID, text)
}

func (s *Session) compose(ctx context.Context, conversationID, userText string) {
	defer s.setComposing(false)

	s.delay.Wait(ctx, s.delayMin, s.delayMax)

	reply := s.responder.Reply(userText)
	msg, err := s.store.Append(ctx, conversationID, reply, chat.SenderBot)
	if err != nil {
		s.logger.Warn("failed to persist bot reply",
			zap.String("conversation_id", conversationID), zap.Error(err))
		s.notify(NoticeReplyFailed)
		return
	}
	s.appendMessage(msg)
}

// Messages returns the visible message list in append order.
func (s *Session) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IsComposing reports whether a bot reply is pending.
func (s *Session) IsComposing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composing
}

// IsLoadingHistory reports whether the initial history load is in flight.
func (s *Session) IsLoadingHistory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Notices returns the recorded user-visible notices, oldest first.
func (s *Session) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notices...)
}

// Close releases the auth-feed subscription. A pending compose is left to
// finish on its own; its events go nowhere once the widget is gone.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Session) watchAuth(ch <-chan auth.Event) {
	for ev := range ch {
		s.mu.Lock()
		if s.conversationID != "" && ev.UserID == s.conversationID {
			s.authenticated = ev.LoggedIn
		}
		s.mu.Unlock()
	}
}

func (s *Session) appendMessage(msg chat.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	s.emit(Event{Type: EventMessage, Message: &msg})
}

func (s *Session) setComposing(v bool) {
	s.mu.Lock()
	s.composing = v
	s.mu.Unlock()
	s.emit(Event{Type: EventComposing, Composing: v})
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) notify(text string) {
	s.mu.Lock()
	s.notices = append(s.notices, text)
	s.mu.Unlock()
	s.emit(Event{Type: EventNotice, Notice: text})
}

func (s *Session) snapshotLocked() []chat.Message {
	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

func (s *Session) emit(e Event) {
	if s.onEvent != nil {
		s.onEvent(e)
	}
}

package session

import "sync"

// Mode is the top-level state of a conversation. A session is always in
// exactly one mode; Step is non-zero iff the mode is a multi-step flow.
type Mode int

const (
	ModeAwaitingLanguage Mode = iota
	ModeCollecting           // gathering course/section/cycle/module for queries
	ModeReady                // free-text questions go to the query orchestrator
	ModeUpdating             // professor update flow
)

// Step is the position inside a multi-step flow.
type Step int

const (
	StepNone Step = iota

	StepCourse
	StepSection
	StepCycle
	StepModule

	StepUpdateCourse
	StepUpdateContent
	StepUpdateCategoryConfirm
	StepUpdateCategoryInput
	StepUpdateCycle
	StepUpdateSection
	StepUpdateModule
)

// HistoryLimit caps the retained conversation history per session.
const HistoryLimit = 50

type Message struct {
	Role    string
	Content string
}

// PendingUpdate accumulates the fields of an in-progress course update.
type PendingUpdate struct {
	Course   string
	Content  string
	Category string
	Cycle    string
	Section  string
	Module   string
}

// Session is the per-user conversational state. It is not safe for
// concurrent use; the transport serializes turns per user key.
type Session struct {
	UserID       string
	Language     string
	Course       string
	Section      string
	Cycle        string
	Module       string
	Mode         Mode
	Step         Step
	Update       PendingUpdate
	History      []Message
	CanInterrupt bool
}

// Append records a turn, trimming history to the most recent entries.
func (s *Session) Append(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
	if len(s.History) > HistoryLimit {
		s.History = s.History[len(s.History)-HistoryLimit:]
	}
}

// Reset returns the session to the start of the query flow: selectors and
// any pending update are cleared, language and history survive.
func (s *Session) Reset() {
	s.Course = ""
	s.Section = ""
	s.Cycle = ""
	s.Module = ""
	s.Update = PendingUpdate{}
	s.Mode = ModeCollecting
	s.Step = StepCourse
	s.CanInterrupt = true
}

// BeginUpdate enters the update flow from any state.
func (s *Session) BeginUpdate() {
	s.Update = PendingUpdate{}
	s.Mode = ModeUpdating
	s.Step = StepUpdateCourse
	s.CanInterrupt = true
}

// Store holds all sessions keyed by user identity. Sessions are created
// lazily and never destroyed; history truncation is the only size bound.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for userID, creating it in the initial
// awaiting-language state on first contact.
func (st *Store) Get(userID string) *Session {
	st.mu.RLock()
	sess, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return sess
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok = st.sessions[userID]; ok {
		return sess
	}
	sess = &Session{
		UserID:       userID,
		Mode:         ModeAwaitingLanguage,
		CanInterrupt: true,
	}
	st.sessions[userID] = sess
	return sess
}

// Len reports the number of known sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

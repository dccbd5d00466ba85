package form

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownSession is returned for ids that are not open.
var ErrUnknownSession = errors.New("unknown form session")

// Sessions tracks open forms by id so a client can fill one in across requests.
type Sessions struct {
	mu      sync.Mutex
	forms   map[string]*Form
	newForm func() *Form
}

// NewSessions returns an empty registry that builds forms with newForm.
func NewSessions(newForm func() *Form) *Sessions {
	return &Sessions{forms: make(map[string]*Form), newForm: newForm}
}

// Open starts a new form session.
func (s *Sessions) Open() (string, *Form) {
	id := uuid.NewString()
	f := s.newForm()

	s.mu.Lock()
	s.forms[id] = f
	s.mu.Unlock()
	return id, f
}

// Get returns the open form with the given id.
func (s *Sessions) Get(id string) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return f, nil
}

// Close removes the session and tears its form down.
func (s *Sessions) Close(id string) error {
	s.mu.Lock()
	f, ok := s.forms[id]
	delete(s.forms, id)
	s.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}
	f.Close()
	return nil
}

// CloseAll closes every open session.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	forms := s.forms
	s.forms = make(map[string]*Form)
	s.mu.Unlock()

	for _, f := range forms {
		f.Close()
	}
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}

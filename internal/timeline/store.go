package timeline

import "slices"

// Store is the canonical ordered message collection. Entries keep arrival
// order; no operation reorders them.
type Store struct {
	messages []Message
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the whole collection.
func (s *Store) Load(messages []Message) {
	s.messages = slices.Clone(messages)
}

func (s *Store) Append(message Message) {
	s.messages = append(s.messages, message)
}

// Replace swaps the entry with the same id in place. Unknown ids are
// ignored.
func (s *Store) Replace(message Message) bool {
	i := s.index(message.ID)
	if i < 0 {
		return false
	}

	s.messages[i] = message

	return true
}

// Remove deletes the entry with the given id. Unknown ids are ignored.
func (s *Store) Remove(id MessageID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}

	s.messages = slices.Delete(s.messages, i, i+1)

	return true
}

func (s *Store) Clear() {
	s.messages = nil
}

func (s *Store) Get(id MessageID) (Message, bool) {
	i := s.index(id)
	if i < 0 {
		return Message{}, false
	}

	return s.messages[i], true
}

func (s *Store) Contains(id MessageID) bool {
	return s.index(id) >= 0
}

// Messages returns a copy of the collection.
func (s *Store) Messages() []Message {
	return slices.Clone(s.messages)
}

func (s *Store) Len() int {
	return len(s.messages)
}

// Newest returns the last entry of the collection.
func (s *Store) Newest() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}

	return s.messages[len(s.messages)-1], true
}

func (s *Store) index(id MessageID) int {
	return slices.IndexFunc(s.messages, func(m Message) bool {
		return m.ID == id
	})
}

// Package documents owns résumé generation requests and the hand-off of the
// most recently generated document to a polling viewer.
package documents

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Document is one generated LaTeX document.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	LaTeX       string    `json:"latex"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Slot holds the last generated document and whether it has been seen.
// Publish replaces the document and marks it unseen; Poll hands it out at most
// once per Publish. Concurrent publishes resolve last-write-wins.
type Slot struct {
	mu    sync.Mutex
	doc   Document
	fresh bool
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Publish stores doc and marks it unseen.
func (s *Slot) Publish(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.fresh = true
}

// Poll returns the stored document and true if it has not been seen since the
// last Publish, then marks it seen. Otherwise it returns a zero Document and false.
func (s *Slot) Poll() (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fresh {
		return Document{}, false
	}
	s.fresh = false
	return s.doc, true
}

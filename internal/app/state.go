// Package app provides the desktop session state and events.
package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"gel-labeler/internal/image"
	"gel-labeler/internal/labeler"
)

// ErrNoImage is returned when labels are requested before a gel is loaded.
var ErrNoImage = errors.New("no gel image loaded")

// ErrNoResult is returned when saving before labels have been generated.
var ErrNoResult = errors.New("no labeled image to save")

// State holds the current gel, the last request, and its result.
type State struct {
	mu sync.RWMutex

	labeler *labeler.Labeler

	// Input
	Gel  *image.Gel
	Seed string
	Rows int

	// Output of the last Generate
	result *labeler.Result

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventLabelsGenerated
	EventResultSaved
	EventError
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new session using l to label images.
func NewState(l *labeler.Labeler) *State {
	if l == nil {
		l = labeler.New(nil)
	}
	return &State{
		labeler:   l,
		Rows:      1,
		listeners: make(map[EventType][]EventListener),
	}
}

// MaxRows returns the largest row count the labeler accepts.
func (s *State) MaxRows() int {
	return s.labeler.MaxRows()
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// LoadImage loads the gel at path and makes it current.
func (s *State) LoadImage(path string) error {
	gel, err := image.Load(path)
	if err != nil {
		s.Emit(EventError, err)
		return err
	}
	s.SetImage(gel)
	return nil
}

// SetImage makes gel current and discards any previous result.
func (s *State) SetImage(gel *image.Gel) {
	s.mu.Lock()
	s.Gel = gel
	s.result = nil
	s.mu.Unlock()

	log.Printf("Image loaded: %s %dx%d (%s)", gel.Path, gel.Width(), gel.Height(), gel.Format)
	s.Emit(EventImageLoaded, gel)
}

// Generate labels the current gel. The previous result is kept on error.
func (s *State) Generate(seed string, rows int) (*labeler.Result, error) {
	s.mu.RLock()
	gel := s.Gel
	s.mu.RUnlock()

	if gel == nil {
		s.Emit(EventError, ErrNoImage)
		return nil, ErrNoImage
	}

	res, err := s.labeler.LabelImage(seed, rows, gel.Image)
	if err != nil {
		s.Emit(EventError, err)
		return nil, err
	}

	s.mu.Lock()
	s.Seed = seed
	s.Rows = rows
	s.result = res
	s.mu.Unlock()

	log.Printf("Labels generated: seed=%s rows=%d", seed, rows)
	s.Emit(EventLabelsGenerated, res)
	return res, nil
}

// Result returns the last generated result, or nil.
func (s *State) Result() *labeler.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// WriteResult encodes the labeled image as PNG into w and closes it. name
// is reported with EventResultSaved. Used when a file dialog has already
// created the destination.
func (s *State) WriteResult(w io.WriteCloser, name string) error {
	res := s.Result()
	if res == nil {
		w.Close()
		return ErrNoResult
	}
	err := res.PNG(w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		err = fmt.Errorf("failed to save labeled gel: %w", err)
		s.Emit(EventError, err)
		return err
	}
	s.Emit(EventResultSaved, name)
	return nil
}

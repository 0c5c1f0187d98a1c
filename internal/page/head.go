package page

import (
	"html/template"
	"sync"
)

// StyleBlock is one injected <style> element, identified by its marker id.
type StyleBlock struct {
	ID  string
	CSS template.CSS
}

// Head collects the style rules injected into a visitor's document.
type Head struct {
	mu     sync.Mutex
	blocks []StyleBlock
}

func NewHead() *Head {
	return &Head{}
}

// InjectStyle appends a style block unless one with the same id exists.
// It reports whether a block was added.
func (h *Head) InjectStyle(id string, css string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.blocks {
		if b.ID == id {
			return false
		}
	}
	h.blocks = append(h.blocks, StyleBlock{ID: id, CSS: template.CSS(css)})
	return true
}

// HasStyle reports whether a block with the marker id was injected.
func (h *Head) HasStyle(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, b := range h.blocks {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Styles returns the blocks in injection order.
func (h *Head) Styles() []StyleBlock {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]StyleBlock, len(h.blocks))
	copy(out, h.blocks)
	return out
}

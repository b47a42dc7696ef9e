// Package surface holds the opaque presentation handles the controller and
// renderer draw into. The TUI reads them back when it paints a frame; nothing
// here is ever persisted.
package surface

import "sync"

type Element interface {
	SetText(text string)
	SetHidden(hidden bool)
	SetActive(active bool)
}

// Row is one visible list line. Transferable rows expose the "give"
// affordance and carry the identity of the entry they show.
type Row struct {
	Key          string
	Primary      string
	Secondary    string
	Transferable bool
	EntryID      int64
}

type List interface {
	Clear()
	Append(row Row)
	Prepend(row Row)
	Remove(key string) bool
	Rows() []Row
}

type MemoryElement struct {
	mu     sync.Mutex
	text   string
	hidden bool
	active bool
}

func NewElement(text string) *MemoryElement {
	return &MemoryElement{text: text}
}

func (e *MemoryElement) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.text = text
}

func (e *MemoryElement) SetHidden(hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hidden = hidden
}

func (e *MemoryElement) SetActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = active
}

func (e *MemoryElement) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *MemoryElement) Hidden() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hidden
}

func (e *MemoryElement) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

type MemoryList struct {
	mu   sync.Mutex
	rows []Row
}

func NewList() *MemoryList {
	return &MemoryList{}
}

func (l *MemoryList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = nil
}

func (l *MemoryList) Append(row Row) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, row)
}

func (l *MemoryList) Prepend(row Row) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append([]Row{row}, l.rows...)
}

func (l *MemoryList) Remove(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.rows {
		if r.Key == key {
			l.rows = append(l.rows[:i:i], l.rows[i+1:]...)
			return true
		}
	}
	return false
}

func (l *MemoryList) Rows() []Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

func (l *MemoryList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

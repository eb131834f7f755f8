// Package notify carries transient user-facing messages (toasts) from
// domain flows to whatever renders them.
package notify

import (
	"sync"
)

type Kind string

const (
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// ID identifies a loading message so it can be dismissed later.
type ID int

// Notifier shows transient messages.
type Notifier interface {
	Loading(msg string) ID
	Success(msg string)
	Error(msg string)
	Dismiss(id ID)
}

// Message is one recorded notification.
type Message struct {
	ID        ID
	Kind      Kind
	Text      string
	Dismissed bool
}

// Buffer records notifications until a request drains them.
type Buffer struct {
	mu     sync.Mutex
	nextID ID
	msgs   []Message
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Loading(msg string) ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.msgs = append(b.msgs, Message{ID: b.nextID, Kind: KindLoading, Text: msg})
	return b.nextID
}

func (b *Buffer) Success(msg string) { b.add(KindSuccess, msg) }

func (b *Buffer) Error(msg string) { b.add(KindError, msg) }

func (b *Buffer) Dismiss(id ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.msgs {
		if b.msgs[i].ID == id {
			b.msgs[i].Dismissed = true
		}
	}
}

func (b *Buffer) add(kind Kind, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.msgs = append(b.msgs, Message{ID: b.nextID, Kind: kind, Text: msg})
}

// Drain returns the messages that are still visible and clears the buffer.
func (b *Buffer) Drain() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, 0, len(b.msgs))
	for _, m := range b.msgs {
		if !m.Dismissed {
			out = append(out, m)
		}
	}
	b.msgs = nil
	return out
}

// Last returns the most recent visible message.
func Last(msgs []Message) (Message, bool) {
	if len(msgs) == 0 {
		return Message{}, false
	}
	return msgs[len(msgs)-1], true
}

// Discard drops every message.
type Discard struct{}

func (Discard) Loading(string) ID { return 0 }
func (Discard) Success(string)    {}
func (Discard) Error(string)      {}
func (Discard) Dismiss(ID)        {}

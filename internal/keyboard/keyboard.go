// Package keyboard defines the synthetic input surface the sequencer types
// into, together with backends that do not touch the OS.
package keyboard

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Key names a single key press understood by the backends.
type Key string

// KeyTab advances focus to the next field.
const KeyTab Key = "tab"

// Keyboard injects input into whatever currently holds focus.
type Keyboard interface {
	// TypeText types text literally.
	TypeText(ctx context.Context, text string) error
	// PressKey taps a single named key.
	PressKey(ctx context.Context, key Key) error
}

// Paced waits a fixed delay after every action of the wrapped keyboard,
// giving the receiving application time to settle.
type Paced struct {
	next  Keyboard
	delay time.Duration
}

// NewPaced wraps next. A non-positive delay disables pacing.
func NewPaced(next Keyboard, delay time.Duration) *Paced {
	return &Paced{next: next, delay: delay}
}

func (p *Paced) TypeText(ctx context.Context, text string) error {
	if err := p.next.TypeText(ctx, text); err != nil {
		return err
	}
	return p.pause(ctx)
}

func (p *Paced) PressKey(ctx context.Context, key Key) error {
	if err := p.next.PressKey(ctx, key); err != nil {
		return err
	}
	return p.pause(ctx)
}

func (p *Paced) pause(ctx context.Context) error {
	if p.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ActionKind tells typed text from key presses.
type ActionKind int

const (
	ActionType ActionKind = iota
	ActionPress
)

// Action is one recorded keyboard call.
type Action struct {
	Kind ActionKind
	Text string
}

func (a Action) String() string {
	if a.Kind == ActionPress {
		return "press " + a.Text
	}
	return fmt.Sprintf("type %q", a.Text)
}

// Recorder keeps every action in memory.
type Recorder struct {
	mu      sync.Mutex
	actions []Action
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) TypeText(_ context.Context, text string) error {
	r.record(Action{Kind: ActionType, Text: text})
	return nil
}

func (r *Recorder) PressKey(_ context.Context, key Key) error {
	r.record(Action{Kind: ActionPress, Text: string(key)})
	return nil
}

func (r *Recorder) record(a Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

// Actions returns a snapshot of the recorded actions.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Writer prints each action on its own line instead of injecting it.
// It backs the --dry-run mode.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) TypeText(_ context.Context, text string) error {
	return w.write(Action{Kind: ActionType, Text: text})
}

func (w *Writer) PressKey(_ context.Context, key Key) error {
	return w.write(Action{Kind: ActionPress, Text: string(key)})
}

func (w *Writer) write(a Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintln(w.out, a.String())
	return err
}

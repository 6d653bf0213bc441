// Package robot injects keystrokes at OS level through robotgo.
package robot

import (
	"context"

	"github.com/go-vgo/robotgo"
	"github.com/pkg/errors"

	"tab-sender/internal/keyboard"
)

// Keyboard sends input to the window that currently has focus.
type Keyboard struct{}

func New() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) TypeText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	robotgo.TypeStr(text)
	return nil
}

func (k *Keyboard) PressKey(ctx context.Context, key keyboard.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := robotgo.KeyTap(string(key)); err != nil {
		return errors.Wrapf(err, "key tap %s", key)
	}
	return nil
}

var _ keyboard.Keyboard = (*Keyboard)(nil)

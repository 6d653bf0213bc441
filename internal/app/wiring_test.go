package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tab-sender/internal/config"
	"tab-sender/internal/keyboard"
	"tab-sender/internal/logger"
	"tab-sender/internal/models"
	"tab-sender/internal/views"
)

func dryRunConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Backend = config.BackendDryRun
	cfg.Countdown = 0
	cfg.TickInterval = time.Millisecond
	cfg.KeyDelay = 0
	cfg.ReadDelay = time.Millisecond
	return &cfg
}

func TestNewKeyboardDryRun(t *testing.T) {
	var buf bytes.Buffer
	cfg := dryRunConfig()

	kb := NewKeyboard(cfg, &buf)
	_, ok := kb.(*keyboard.Writer)
	assert.True(t, ok)

	cfg.KeyDelay = time.Millisecond
	kb = NewKeyboard(cfg, &buf)
	_, ok = kb.(*keyboard.Paced)
	assert.True(t, ok)
}

func TestBuildSendsSelectedStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.txt")
	content := "Stage A - 256 Frequencies - 01234 56789\n" +
		"Stage N - 256 Frequencies - 11111\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var out bytes.Buffer
	cfg := dryRunConfig()
	c := Build(cfg, NewKeyboard(cfg, &out), logger.Nop())

	var console bytes.Buffer
	c.Controller.SetView(views.NewConsoleView(&console))

	require.NoError(t, c.Controller.SelectFile(context.Background(), path))
	assert.Equal(t, models.StageA, c.Controller.Stage())

	job, err := c.Controller.StartSending()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := job.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseCompleted, outcome.Phase)
	assert.Equal(t, 2, outcome.Sent)

	assert.Equal(t, `type "1.234"`+"\n"+"press tab\n"+`type "56.789"`+"\n"+"press tab\n", out.String())
	assert.True(t, strings.Contains(console.String(), "Done sending data."))
}

package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"stocktrack/pkg/config"
)

// workspace isolates a test from the caller's environment and returns config and data paths.
func workspace(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("STOCKTRACK_DATA", "")
	t.Setenv("STOCKTRACK_LOW_THRESHOLD", "")
	t.Setenv("STOCKTRACK_LOG_LEVEL", "")
	dir := t.TempDir()
	chdir(t, dir)
	return filepath.Join(dir, "stocktrack.yaml"), filepath.Join(dir, "inventory.json")
}

func execute(t *testing.T, args ...string) (string, *observer.ObservedLogs, error) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	root := NewRootCommand(zap.New(core))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs, err
}

func mustExecute(t *testing.T, args ...string) (string, *observer.ObservedLogs) {
	t.Helper()
	out, logs, err := execute(t, args...)
	require.NoError(t, err, out)
	return out, logs
}

func logged(logs *observer.ObservedLogs, msg string) bool {
	return logs.FilterMessage(msg).Len() > 0
}

func TestDemo_Reset(t *testing.T) {
	cfgPath, data := workspace(t)

	out, logs := mustExecute(t, "--config", cfgPath, "--data", data, "demo", "--reset")

	assert.Contains(t, out, "apple stock: 7\n")
	assert.Contains(t, out, "Low items: banana, orange\n")
	assert.Contains(t, out, "Items Report\n - apple: 7\n - banana: -2\n - orange: 3\n")

	assert.True(t, logged(logs, "Starting with fresh inventory"))
	assert.True(t, logged(logs, `Invalid quantity for "invalid_qty": "ten". Must be a number.`))
	assert.True(t, logged(logs, `Item "mango" not present in inventory; nothing removed.`))
	assert.True(t, logged(logs, "Data saved to "+data))

	saved, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"apple\": 7,\n  \"banana\": -2,\n  \"orange\": 3\n}", string(saved))
}

func TestDemo_LoadsExistingData(t *testing.T) {
	cfgPath, data := workspace(t)

	_, logs := mustExecute(t, "--config", cfgPath, "--data", data, "demo")
	assert.True(t, logged(logs, `File "`+data+`" not found; starting with empty inventory.`))

	out, logs := mustExecute(t, "--config", cfgPath, "--data", data, "demo", "--journal")
	assert.True(t, logged(logs, "Loaded data from "+data))
	assert.Contains(t, out, "apple stock: 14\n")
	assert.Contains(t, out, " - banana: -4\n")

	journalLine := regexp.MustCompile(`(?m)^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{6}: Added 10 of apple$`)
	assert.Regexp(t, journalLine, out)

	entries := logs.FilterMessage("journal entry").All()
	require.Len(t, entries, 3)
	ids := make(map[string]bool)
	for _, e := range entries {
		id, _ := e.ContextMap()["entry"].(string)
		_, err := uuid.Parse(id)
		assert.NoError(t, err, "entry id %q", id)
		ids[id] = true
	}
	assert.Len(t, ids, 3)
	assert.Equal(t, "apple", entries[0].ContextMap()["item"])
	assert.Equal(t, "10", entries[0].ContextMap()["qty"])
}

func TestDemo_StartupResetFromConfig(t *testing.T) {
	cfgPath, data := workspace(t)
	require.NoError(t, os.WriteFile(data, []byte(`{"apple": 100}`), 0o644))
	require.NoError(t, os.WriteFile(cfgPath, []byte("startup: reset\n"), 0o644))

	out, _ := mustExecute(t, "--config", cfgPath, "--data", data, "demo")
	assert.Contains(t, out, "apple stock: 7\n")
}

func TestAddRemoveQuery(t *testing.T) {
	cfgPath, data := workspace(t)
	run := func(args ...string) (string, *observer.ObservedLogs) {
		return mustExecute(t, append([]string{"--config", cfgPath, "--data", data}, args...)...)
	}

	run("add", "apple", "10")
	run("add", "pear", "2.5")

	_, logs := run("add", "apple", "ten")
	assert.True(t, logged(logs, `Invalid quantity for "apple": "ten". Must be a number.`))

	run("remove", "apple", "4")

	_, logs = run("remove", "ghost", "1")
	assert.True(t, logged(logs, `Item "ghost" not present in inventory; nothing removed.`))

	out, _ := run("qty", "apple")
	assert.Equal(t, "apple stock: 6\n", out)
	out, _ = run("qty", "ghost")
	assert.Equal(t, "ghost stock: none\n", out)

	out, _ = run("low")
	assert.Equal(t, "Low items: pear\n", out)
	out, _ = run("low", "--threshold", "7")
	assert.Equal(t, "Low items: apple, pear\n", out)
	out, _ = run("low", "--threshold", "1")
	assert.Equal(t, "Low items: none\n", out)

	run("remove", "pear", "2.5")
	out, _ = run("report")
	assert.Equal(t, "Items Report\n - apple: 6\n", out)
}

func TestThresholdFromConfig(t *testing.T) {
	cfgPath, data := workspace(t)
	require.NoError(t, os.WriteFile(data, []byte(`{"apple": 8, "pear": 12}`), 0o644))
	require.NoError(t, os.WriteFile(cfgPath, []byte("low_threshold: 10\n"), 0o644))

	out, _ := mustExecute(t, "--config", cfgPath, "--data", data, "low")
	assert.Equal(t, "Low items: apple\n", out)
}

func TestReport_MalformedFile(t *testing.T) {
	cfgPath, data := workspace(t)
	require.NoError(t, os.WriteFile(data, []byte("not json"), 0o644))

	out, logs := mustExecute(t, "--config", cfgPath, "--data", data, "report")
	assert.Equal(t, "Items Report\n(Inventory is empty)\n", out)
	assert.True(t, logged(logs, `File "`+data+`" contains invalid JSON; starting with empty inventory.`))

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "malformed_file", warnings[0].ContextMap()["outcome"])
}

func TestRunScript(t *testing.T) {
	cfgPath, data := workspace(t)
	scriptPath := filepath.Join(filepath.Dir(data), "ops.yaml")
	require.NoError(t, os.WriteFile(scriptPath, []byte(`
name: restock
steps:
  - {op: add, item: apple, qty: 3}
  - {op: add, item: 42, qty: 1}
  - {op: qty, item: apple}
  - {op: report}
`), 0o644))

	out, logs := mustExecute(t, "--config", cfgPath, "--data", data, "run", scriptPath, "--save", "--reset")
	assert.Contains(t, out, "apple stock: 3\n")
	assert.Contains(t, out, "Items Report\n - apple: 3\n")
	assert.True(t, logged(logs, "Invalid item name: 42. Must be a non-empty string."))
	assert.True(t, logged(logs, "Data saved to "+data))

	_, _, err := execute(t, "--config", cfgPath, "--data", data, "run", filepath.Join(filepath.Dir(data), "missing.yaml"))
	assert.Error(t, err)
}

func TestInvalidConfiguration(t *testing.T) {
	cfgPath, data := workspace(t)
	require.NoError(t, os.WriteFile(cfgPath, []byte("startup: ask\n"), 0o644))

	_, _, err := execute(t, "--config", cfgPath, "--data", data, "report")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestInitConfig(t *testing.T) {
	cfgPath, data := workspace(t)
	custom := filepath.Join(filepath.Dir(data), "stock", "items.json")

	_, logs := mustExecute(t, "--config", cfgPath, "--data", custom, "init-config")
	assert.True(t, logged(logs, "Configuration written"))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, custom, cfg.DataPath)
	assert.Equal(t, config.DefaultConfig().LowThreshold, cfg.LowThreshold)

	_, _, err = execute(t, "--config", cfgPath, "init-config")
	assert.ErrorContains(t, err, "already exists")

	mustExecute(t, "--config", cfgPath, "--data", data, "init-config", "--force")
	cfg, err = config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, data, cfg.DataPath)

	mustExecute(t, "--config", cfgPath, "add", "apple", "3")
	_, err = os.Stat(data)
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, _ := mustExecute(t, "version")
	assert.True(t, strings.HasPrefix(out, "stocktrack version "))
}

// lockedBuffer lets the test read output while the watcher goroutine writes it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_ReportsAfterChange(t *testing.T) {
	cfgPath, data := workspace(t)
	require.NoError(t, os.WriteFile(data, []byte(`{"apple": 10}`), 0o644))

	root := NewRootCommand(zap.NewNop())
	out := &lockedBuffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"--config", cfgPath, "--data", data, "watch"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Low items: none\n")
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(data, []byte(`{"apple": 10, "pear": 1}`), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Low items: pear\n")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

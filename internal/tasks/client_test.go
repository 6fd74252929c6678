package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/contacts/internal/contacts"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(filepath.Join(t.TempDir(), "contacts.db"), Config{Workers: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func startClient(t *testing.T, client *Client) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	client.Start(ctx)
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		client.Stop(stopCtx)
		cancel()
	})
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "contacts-tasks.db"), TasksDBPath(filepath.Join("data", "contacts.db")))
	assert.Equal(t, "plain-tasks", TasksDBPath("plain"))
}

func TestNewClient_CreatesQueueDatabase(t *testing.T) {
	dir := t.TempDir()

	client, err := NewClient(filepath.Join(dir, "contacts.db"), Config{})
	require.NoError(t, err)
	defer client.Close()

	_, err = os.Stat(filepath.Join(dir, "contacts-tasks.db"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), client.config)
}

func TestClient_StopWithoutStart(t *testing.T) {
	client := newTestClient(t)

	assert.True(t, client.Stop(context.Background()))
}

func TestClient_EnqueuePending(t *testing.T) {
	client := newTestClient(t)

	id, err := client.Enqueue(ImportContactsTask{
		RunID:       "run-pending",
		Source:      contacts.SourceEmailList,
		Credentials: contacts.Credentials{UserID: 1, Emails: []string{"a@example.com"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	status, err := client.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, backlite.TaskStatusPending, status)
}

func TestClient_EnqueueRunsImport(t *testing.T) {
	client := newTestClient(t)
	runner := &recordingRunner{calls: make(chan ImportContactsTask, 1)}
	client.Register(NewImportContactsQueue(runner))
	startClient(t, client)

	task := ImportContactsTask{
		RunID:       "run-done",
		Source:      contacts.SourceEmailList,
		Credentials: contacts.Credentials{UserID: 3, Emails: []string{"a@example.com", "b@example.com"}},
	}
	id, err := client.Enqueue(task)
	require.NoError(t, err)

	select {
	case got := <-runner.calls:
		assert.Equal(t, task, got)
	case <-time.After(5 * time.Second):
		t.Fatal("import task was not executed within timeout")
	}

	assert.Eventually(t, func() bool {
		status, err := client.Status(context.Background(), id)
		return err == nil && status == backlite.TaskStatusSuccess
	}, 5*time.Second, 20*time.Millisecond)
}

func TestClient_FailedImportIsNotRetried(t *testing.T) {
	client := newTestClient(t)
	runner := &recordingRunner{calls: make(chan ImportContactsTask, 2), err: errors.New("yahoo unavailable")}
	client.Register(NewImportContactsQueue(runner))
	startClient(t, client)

	id, err := client.Enqueue(ImportContactsTask{RunID: "run-failed", Source: contacts.SourceYahoo})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		status, err := client.Status(context.Background(), id)
		return err == nil && status == backlite.TaskStatusFailure
	}, 5*time.Second, 20*time.Millisecond)
	assert.Len(t, runner.calls, 1)
}

func TestConfig_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), Config{}.withDefaults())

	custom := Config{Workers: 4, ImportTimeout: time.Minute, ReleaseAfter: time.Minute, CleanupInterval: time.Minute}
	assert.Equal(t, custom, custom.withDefaults())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 10*time.Minute, cfg.ImportTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

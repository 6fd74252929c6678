package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/contacts/internal/contacts"
)

type recordingRunner struct {
	calls chan ImportContactsTask
	err   error
}

func (r *recordingRunner) Execute(_ context.Context, runID string, source contacts.Source, creds contacts.Credentials) error {
	r.calls <- ImportContactsTask{RunID: runID, Source: source, Credentials: creds}
	return r.err
}

func TestImportContactsTaskConfig(t *testing.T) {
	cfg := ImportContactsTask{}.Config()

	assert.Equal(t, "import_contacts", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestImportContactsProcessor(t *testing.T) {
	t.Run("passes the task to the runner", func(t *testing.T) {
		runner := &recordingRunner{calls: make(chan ImportContactsTask, 1)}
		process := ImportContactsProcessor(runner)

		task := ImportContactsTask{
			RunID:       "run-1",
			Source:      contacts.SourceEmailList,
			Credentials: contacts.Credentials{UserID: 2, Emails: []string{"a@example.com"}},
		}
		require.NoError(t, process(context.Background(), task))
		assert.Equal(t, task, <-runner.calls)
	})

	t.Run("returns runner error", func(t *testing.T) {
		boom := errors.New("boom")
		runner := &recordingRunner{calls: make(chan ImportContactsTask, 1), err: boom}
		err := ImportContactsProcessor(runner)(context.Background(), ImportContactsTask{RunID: "run-2"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil runner", func(t *testing.T) {
		err := ImportContactsProcessor(nil)(context.Background(), ImportContactsTask{})
		assert.ErrorIs(t, err, ErrRunnerNotConfigured)
	})
}

func TestImportContactsQueue_EndToEnd(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), Config{Workers: 1})
	require.NoError(t, err)
	defer client.Close()

	runner := &recordingRunner{calls: make(chan ImportContactsTask, 1)}
	client.Register(NewImportContactsQueue(runner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	_, err = client.Enqueue(ImportContactsTask{
		RunID:       "run-3",
		Source:      contacts.SourceVcard,
		Credentials: contacts.Credentials{UserID: 5, VCard: []byte("BEGIN:VCARD\r\nEND:VCARD\r\n")},
	})
	require.NoError(t, err)

	select {
	case got := <-runner.calls:
		assert.Equal(t, "run-3", got.RunID)
		assert.Equal(t, contacts.SourceVcard, got.Source)
		assert.Equal(t, uint(5), got.Credentials.UserID)
		assert.Equal(t, "BEGIN:VCARD\r\nEND:VCARD\r\n", string(got.Credentials.VCard))
	case <-time.After(5 * time.Second):
		t.Fatal("import task was not executed within timeout")
	}
}

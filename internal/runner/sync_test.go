package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/entities"
	"github.com/mrlokans/contacts/internal/importers"
)

func TestSyncExecutor_Submit(t *testing.T) {
	registry := importers.NewRegistry(
		&sliceImporter{source: contacts.SourceEmailList, contacts: makeContacts(4)},
		&sliceImporter{source: contacts.SourceYahoo, err: importers.ErrYahooFormatChanged},
	)
	exec := NewSyncExecutor(registry, &recordingSink{})

	t.Run("success is ready and done", func(t *testing.T) {
		h, err := exec.Submit(context.Background(), contacts.SourceEmailList, contacts.Credentials{UserID: 6})
		require.NoError(t, err)
		assert.Equal(t, uint(6), h.OwnerID)
		assert.True(t, h.Ready())
		assert.True(t, h.Succeeded())
		assert.Equal(t, entities.RunStateDone, h.State)
		assert.Equal(t, contacts.Status{Imported: 4, Total: 4}, h.Result)
		assert.NotEmpty(t, h.TaskID)
		assert.NoError(t, h.Err)
	})

	t.Run("failure is ready and carries the error", func(t *testing.T) {
		h, err := exec.Submit(context.Background(), contacts.SourceYahoo, contacts.Credentials{})
		require.NoError(t, err)
		assert.True(t, h.Ready())
		assert.False(t, h.Succeeded())
		assert.Equal(t, entities.RunStateFailure, h.State)
		assert.ErrorIs(t, h.Err, importers.ErrYahooFormatChanged)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := exec.Submit(context.Background(), contacts.SourceGoogle, contacts.Credentials{})
		assert.ErrorIs(t, err, contacts.ErrUnknownSource)
	})

	t.Run("lookup finds nothing", func(t *testing.T) {
		_, err := exec.Lookup(context.Background(), "anything")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})
}

func TestHandle_Ready(t *testing.T) {
	assert.False(t, (&Handle{State: entities.RunStatePending}).Ready())
	assert.True(t, (&Handle{State: entities.RunStateDone}).Ready())
	assert.True(t, (&Handle{State: entities.RunStateFailure}).Ready())
}

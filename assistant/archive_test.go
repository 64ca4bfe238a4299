package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/ikbalkahhori/bright-path-sub000/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCollection records saved conversations; other collection methods are
// not used by the archive.
type stubCollection struct {
	odm.OdmCollectionInterface[memory.ConversationRecord]

	mu      sync.Mutex
	saveErr error
	saved   []memory.ConversationRecord
}

func (c *stubCollection) Save(ctx context.Context, model memory.ConversationRecord) <-chan async.Result[struct{}] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.saved = append(c.saved, model)
	ch := make(chan async.Result[struct{}], 1)
	ch <- async.Result[struct{}]{Err: c.saveErr}
	return ch
}

func (c *stubCollection) records() []memory.ConversationRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]memory.ConversationRecord(nil), c.saved...)
}

func newArchivingManager(t *testing.T, provider *fakeProvider, collection *stubCollection) *SessionManager {
	t.Helper()

	m, err := NewSessionManagerBuilder().
		WithProvider(provider).
		WithArchive(memory.NewConversationArchive(collection, 0)).
		Build(context.Background())
	require.NoError(t, err)
	return m
}

func TestReset_ArchivesConversation(t *testing.T) {
	tests := []struct {
		name      string
		messages  []string
		saveErr   error
		wantSaves int
		wantTurns int
	}{
		{
			name:      "priming only is not archived",
			wantSaves: 0,
		},
		{
			name:      "finished exchanges are archived",
			messages:  []string{"Compare USA vs UK", "And Canada?"},
			wantSaves: 1,
			wantTurns: PrimingTurns + 4,
		},
		{
			name:      "save failure does not fail the reset",
			messages:  []string{"Scholarships in Germany?"},
			saveErr:   errors.New("mongo unavailable"),
			wantSaves: 1,
			wantTurns: PrimingTurns + 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collection := &stubCollection{saveErr: tt.saveErr}
			m := newArchivingManager(t, &fakeProvider{reply: replyWith("Here is an answer.")}, collection)

			for _, msg := range tt.messages {
				m.SendMessage(context.Background(), msg)
			}
			sessionID := m.SessionID()

			require.NoError(t, m.Reset(context.Background()))
			assert.Equal(t, uint64(2), m.Generation())
			assert.Len(t, m.History(), PrimingTurns)

			records := collection.records()
			require.Len(t, records, tt.wantSaves)
			if tt.wantSaves == 0 {
				return
			}

			record := records[0]
			assert.Equal(t, sessionID, record.SessionID)
			assert.NotEmpty(t, record.ID)
			assert.NotZero(t, record.ArchivedOn)
			require.Len(t, record.Turns, tt.wantTurns)
			assertAlternating(t, record.Turns)
			assert.Equal(t, tt.messages[0], record.Turns[PrimingTurns].Content)
		})
	}
}

func TestReset_ArchiveSkipsPendingTurn(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	provider := &fakeProvider{reply: replyWith("First answer.")}
	collection := &stubCollection{}
	m := newArchivingManager(t, provider, collection)

	assert.Equal(t, "First answer.", m.SendMessage(context.Background(), "First question"))

	provider.mu.Lock()
	provider.reply = func(context.Context, string) (string, error) {
		close(entered)
		<-release
		return "late answer", nil
	}
	provider.mu.Unlock()

	done := make(chan string, 1)
	go func() {
		done <- m.SendMessage(context.Background(), "in flight")
	}()

	<-entered
	require.NoError(t, m.Reset(context.Background()))
	close(release)

	assert.Empty(t, <-done)

	records := collection.records()
	require.Len(t, records, 1)
	turns := records[0].Turns
	require.Len(t, turns, PrimingTurns+2)
	assert.Equal(t, memory.AssistantTurn("First answer."), turns[len(turns)-1])
	for _, turn := range turns {
		assert.NotEqual(t, "in flight", turn.Content)
	}
	assert.Len(t, m.History(), PrimingTurns)
}

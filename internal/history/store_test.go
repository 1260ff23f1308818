package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springnorm/internal/sequence"
	"springnorm/internal/specs"
)

func newTestStore(t *testing.T, maxMessages int) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"), maxMessages)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMessagesRoundTrip(t *testing.T) {
	s := newTestStore(t, 0)

	require.NoError(t, s.AddMessage("user", "Generate a sequence"))
	require.NoError(t, s.AddMessage("assistant", "Here it is"))

	msgs, err := s.Messages(0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "Here it is", msgs[1].Content)
	assert.False(t, msgs[0].CreatedAt.IsZero())
}

func TestMessageCapTrimsOldest(t *testing.T) {
	s := newTestStore(t, 5)

	for i := 0; i < 12; i++ {
		require.NoError(t, s.AddMessage("user", fmt.Sprintf("msg-%d", i)))
	}

	msgs, err := s.Messages(0)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	assert.Equal(t, "msg-7", msgs[0].Content)
	assert.Equal(t, "msg-11", msgs[4].Content)
}

func TestClearMessages(t *testing.T) {
	s := newTestStore(t, 0)
	require.NoError(t, s.AddMessage("user", "x"))
	require.NoError(t, s.ClearMessages())

	msgs, err := s.Messages(0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSequenceRoundTrip(t *testing.T) {
	s := newTestStore(t, 0)

	block := &sequence.SequenceBlock{
		ID:        "seq-1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		ChatText:  "Here is your sequence.",
		Rows: []sequence.CommandRow{
			{Row: "R00", CMD: "ZF", Description: "Zero Force"},
			{Row: "R09", CMD: "Scrag", Description: "Scragging", Condition: "R03,2"},
		},
	}
	resolved := specs.ResolvedSpec{PartName: "Demo Spring", PartNumber: "DS-1"}
	require.NoError(t, s.SaveSequence(block, resolved))

	got, err := s.GetSequence("seq-1")
	require.NoError(t, err)
	assert.Equal(t, block.ChatText, got.ChatText)
	assert.Equal(t, block.Rows, got.Rows)
	assert.Equal(t, "Demo Spring", got.PartName)

	// Saving again with new rows replaces, not duplicates.
	block.Rows = block.Rows[:1]
	require.NoError(t, s.SaveSequence(block, resolved))
	list, err := s.RecentSequences(0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Rows, 1)
}

func TestRecentSequencesOrder(t *testing.T) {
	s := newTestStore(t, 0)

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		block := &sequence.SequenceBlock{
			ID:        fmt.Sprintf("seq-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Rows:      []sequence.CommandRow{{Row: "R00", CMD: "ZF"}},
		}
		require.NoError(t, s.SaveSequence(block, specs.ResolvedSpec{}))
	}

	list, err := s.RecentSequences(2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "seq-2", list[0].ID)
	assert.Equal(t, "seq-1", list[1].ID)
}

func TestGetMissingSequence(t *testing.T) {
	s := newTestStore(t, 0)
	_, err := s.GetSequence("nope")
	assert.Error(t, err)
}

func TestDeleteSequence(t *testing.T) {
	s := newTestStore(t, 0)
	block := &sequence.SequenceBlock{ID: "seq-del", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.SaveSequence(block, specs.ResolvedSpec{}))
	require.NoError(t, s.DeleteSequence("seq-del"))

	_, err := s.GetSequence("seq-del")
	assert.Error(t, err)
}

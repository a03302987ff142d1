package transcript

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) listen(ev Event) { r.events = append(r.events, ev) }

func TestAppend(t *testing.T) {
	rec := &recorder{}
	b := New(rec.listen)

	first := b.Append("你", "hello")
	second := b.Append("AI", "思考中...")

	assert.Equal(t, 2, b.Len())
	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, rec.events, 2)
	assert.Equal(t, Appended, rec.events[1].Kind)
	assert.Equal(t, 1, rec.events[1].Index)
	assert.Equal(t, "思考中...", rec.events[1].Entry.Text)

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, second, last)
}

func TestReplaceLastKeepsPosition(t *testing.T) {
	rec := &recorder{}
	b := New(rec.listen)
	b.Append("AI", "first answer")
	b.Append("你", "question")
	placeholder := b.Append("AI", "思考中...")
	b.Append("你", "follow-up")

	got := b.ReplaceLast("AI", "4")

	assert.Equal(t, placeholder.ID, got.ID)
	entries := b.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "first answer", entries[0].Text)
	assert.Equal(t, "question", entries[1].Text)
	assert.Equal(t, "4", entries[2].Text)
	assert.Equal(t, "follow-up", entries[3].Text)

	ev := rec.events[len(rec.events)-1]
	assert.Equal(t, Replaced, ev.Kind)
	assert.Equal(t, 2, ev.Index)
}

func TestReplaceLastFallsBackToAppend(t *testing.T) {
	b := New(nil)
	b.Append("你", "question")

	got := b.ReplaceLast("AI", "answer")

	assert.Equal(t, 2, b.Len())
	last, _ := b.Last()
	assert.Equal(t, got, last)
	assert.Equal(t, "AI", last.Sender)
}

func TestReplaceLastIdempotent(t *testing.T) {
	b := New(nil)
	b.Append("AI", "思考中...")
	b.ReplaceLast("AI", "done")
	b.ReplaceLast("AI", "done")

	assert.Equal(t, 1, b.Len())
	assert.Equal(t, "AI: done\n\n", b.String())
}

func TestReplaceByID(t *testing.T) {
	b := New(nil)
	older := b.Append("AI", "思考中...")
	newer := b.Append("AI", "思考中...")

	_, ok := b.Replace(older.ID, "first")
	require.True(t, ok)

	entries := b.Entries()
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, "思考中...", entries[1].Text)
	assert.Equal(t, newer.ID, entries[1].ID)

	_, ok = b.Replace(uuid.New(), "nobody")
	assert.False(t, ok)
	assert.Equal(t, 2, b.Len())
}

func TestEntriesIsCopy(t *testing.T) {
	b := New(nil)
	b.Append("你", "a")
	entries := b.Entries()
	entries[0].Text = "mutated"
	assert.Equal(t, "a", b.Entries()[0].Text)
}

func TestClear(t *testing.T) {
	rec := &recorder{}
	b := New(rec.listen)
	b.Append("你", "a")
	b.Clear()

	assert.Zero(t, b.Len())
	_, ok := b.Last()
	assert.False(t, ok)
	assert.Equal(t, Cleared, rec.events[len(rec.events)-1].Kind)
	assert.Empty(t, b.String())
}

func TestString(t *testing.T) {
	b := New(nil)
	b.Append("你", "What is 2+2?")
	b.Append("AI", "4")
	assert.Equal(t, "你: What is 2+2?\n\nAI: 4\n\n", b.String())
}

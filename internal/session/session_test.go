package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreGetCreatesOnce(t *testing.T) {
	store := NewStore()
	first := store.Get("user-1")
	require.Equal(t, ModeAwaitingLanguage, first.Mode)
	require.True(t, first.CanInterrupt)

	first.Language = "es"
	again := store.Get("user-1")
	require.Same(t, first, again)
	require.Equal(t, 1, store.Len())
}

func TestResetKeepsLanguageAndHistory(t *testing.T) {
	sess := &Session{
		UserID:   "user-1",
		Language: "qu",
		Course:   "Algoritmos",
		Section:  "G1",
		Cycle:    "20241",
		Module:   "A",
		Mode:     ModeReady,
		Update:   PendingUpdate{Course: "Algoritmos", Content: "pendiente"},
	}
	sess.Append("user", "hola")
	sess.Append("assistant", "hola!")

	sess.Reset()

	require.Equal(t, "qu", sess.Language)
	require.Len(t, sess.History, 2)
	require.Empty(t, sess.Course)
	require.Empty(t, sess.Section)
	require.Empty(t, sess.Cycle)
	require.Empty(t, sess.Module)
	require.Equal(t, PendingUpdate{}, sess.Update)
	require.Equal(t, ModeCollecting, sess.Mode)
	require.Equal(t, StepCourse, sess.Step)
}

func TestAppendTrimsHistory(t *testing.T) {
	sess := &Session{}
	for i := 0; i < HistoryLimit+10; i++ {
		sess.Append("user", fmt.Sprintf("message %d", i))
	}
	require.Len(t, sess.History, HistoryLimit)
	require.Equal(t, fmt.Sprintf("message %d", HistoryLimit+9), sess.History[len(sess.History)-1].Content)
}

func TestBeginUpdate(t *testing.T) {
	sess := &Session{Language: "es", Mode: ModeReady}
	sess.BeginUpdate()
	require.Equal(t, ModeUpdating, sess.Mode)
	require.Equal(t, StepUpdateCourse, sess.Step)
	require.Equal(t, PendingUpdate{}, sess.Update)
}

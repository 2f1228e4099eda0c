package session

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doccontext/internal/common"
	"github.com/joseph-ayodele/doccontext/internal/entity"
)

func TestSessionContextAndVoiceAreIndependent(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	sess := st.Create(ctx)
	require.Nil(t, sess.Context)
	require.False(t, sess.VoiceInput)

	doc := &entity.Document{ID: uuid.New(), Name: "report.pdf", Text: "numbers"}
	got, err := st.AttachContext(ctx, sess.ID, doc)
	require.NoError(t, err)
	require.Equal(t, doc.ID, got.Context.DocumentID)

	got, err = st.SetVoiceInput(ctx, sess.ID, true)
	require.NoError(t, err)
	require.True(t, got.VoiceInput)
	require.NotNil(t, got.Context)

	got, err = st.ClearContext(ctx, sess.ID)
	require.NoError(t, err)
	require.Nil(t, got.Context)
	require.True(t, got.VoiceInput)

	other := st.Create(ctx)
	require.False(t, other.VoiceInput)
}

func TestSessionCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	sess := st.Create(ctx)
	got, err := st.AttachContext(ctx, sess.ID, &entity.Document{ID: uuid.New(), Text: "original"})
	require.NoError(t, err)

	got.Context.Text = "mutated"
	again, err := st.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, "original", again.Context.Text)
}

func TestSessionNotFound(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	missing := uuid.New()
	_, err := st.Get(ctx, missing)
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = st.SetVoiceInput(ctx, missing, true)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, st.Delete(ctx, missing), common.ErrNotFound)

	sess := st.Create(ctx)
	require.NoError(t, st.Delete(ctx, sess.ID))
	_, err = st.Get(ctx, sess.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSessionConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	sess := st.Create(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(on bool) {
			defer wg.Done()
			_, err := st.SetVoiceInput(ctx, sess.ID, on)
			require.NoError(t, err)
		}(i%2 == 0)
	}
	wg.Wait()
	_, err := st.Get(ctx, sess.ID)
	require.NoError(t, err)
}

package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStorePutGet(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	key, err := s.Put(ctx, "reports/alice/one.pdf", strings.NewReader("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "reports/alice/one.pdf", key)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(b))

	u, err := s.URL(key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.True(t, strings.HasSuffix(u, "/reports/alice/one.pdf"))
}

func TestFSStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(ctx, "a.txt", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "a.txt", strings.NewReader("second"))
	require.NoError(t, err)

	rc, err := s.Get(ctx, "a.txt")
	require.NoError(t, err)
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(b))
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"", "../x", "a/../../x", "a/./b", `a\b`, "a//b"} {
		_, err := s.Put(ctx, k, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", k)
	}
}

func TestFSStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"reports/bob/2.xlsx", "reports/alice/1.pdf", "reports/bob/1.pdf", "other/x"} {
		_, err := s.Put(ctx, k, strings.NewReader(k))
		require.NoError(t, err)
	}

	objs, err := s.List(ctx, "reports/bob/")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "reports/bob/1.pdf", objs[0].Key)
	assert.Equal(t, "reports/bob/2.xlsx", objs[1].Key)
	assert.Equal(t, int64(len("reports/bob/1.pdf")), objs[0].Size)

	require.NoError(t, s.Delete(ctx, "reports/bob/1.pdf"))
	assert.ErrorIs(t, s.Delete(ctx, "reports/bob/1.pdf"), ErrNotFound)
	_, err = s.Get(ctx, "reports/bob/1.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	objs, err = s.List(ctx, "reports/")
	require.NoError(t, err)
	assert.Len(t, objs, 2)
}

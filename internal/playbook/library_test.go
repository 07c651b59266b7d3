package playbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-maturity/internal/db"
	"github.com/mind-engage/mindengage-maturity/internal/maturity"
)

const minimalContent = `generic_recommendations: [g1, g2, g3, g4, g5]
domains:
  cybersecurity:
    summary: v1
    bands:
      Initial:
        recommendations: [enable mfa]
`

const updatedContent = `generic_recommendations: [g1, g2, g3, g4, g5]
domains:
  cybersecurity:
    summary: v2
    bands:
      Initial:
        recommendations: [run phishing drills]
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLibraryReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playbook.yaml")
	writeFile(t, path, minimalContent)

	base, err := LoadFile(path)
	require.NoError(t, err)
	lib := NewLibrary(base, WithFile(path))
	assert.Equal(t, []string{"enable mfa"}, lib.RecommendationsFor(maturity.Cybersecurity, maturity.BandInitial))

	writeFile(t, path, updatedContent)
	require.NoError(t, lib.Reload())
	assert.Equal(t, []string{"run phishing drills"}, lib.RecommendationsFor(maturity.Cybersecurity, maturity.BandInitial))

	writeFile(t, path, "generic_recommendations: [")
	assert.Error(t, lib.Reload())
	assert.Equal(t, []string{"run phishing drills"}, lib.RecommendationsFor(maturity.Cybersecurity, maturity.BandInitial))
}

func TestLibraryReloadWithoutFile(t *testing.T) {
	lib := NewLibrary(nil)
	assert.ErrorIs(t, lib.Reload(), ErrNoContentFile)
	assert.ErrorIs(t, lib.Watch(context.Background()), ErrNoContentFile)
}

func TestLibraryWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playbook.yaml")
	writeFile(t, path, minimalContent)
	base, err := LoadFile(path)
	require.NoError(t, err)
	lib := NewLibrary(base, WithFile(path))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lib.Watch(ctx) }()

	want := []string{"run phishing drills"}
	require.Eventually(t, func() bool {
		// rewrite until the watcher is registered and picks it up
		writeFile(t, path, updatedContent)
		got := lib.RecommendationsFor(maturity.Cybersecurity, maturity.BandInitial)
		return len(got) == 1 && got[0] == want[0]
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func openOverrideStore(t *testing.T) *SQLOverrideStore {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return NewSQLOverrideStore(dbh)
}

func TestLibraryOverrides(t *testing.T) {
	ctx := context.Background()
	store := openOverrideStore(t)
	lib := NewLibrary(Default(), WithOverrideStore(store))

	o, err := lib.SetOverride(ctx, Override{
		Domain: maturity.Infrastructure,
		Band:   maturity.BandOptimized,
		Entry: Entry{
			Recommendations: []string{"Publish an annual resilience report."},
			Templates:       []Template{{Name: "Resilience Report", FileType: "docx"}},
		},
		UpdatedBy: "admin",
	})
	require.NoError(t, err)
	assert.NotZero(t, o.UpdatedAt)

	assert.Equal(t, []string{"Publish an annual resilience report."},
		lib.RecommendationsFor(maturity.Infrastructure, maturity.BandOptimized))
	require.Len(t, lib.TemplatesFor(maturity.Infrastructure, maturity.BandOptimized), 1)

	// a fresh library sees the persisted override
	lib2 := NewLibrary(Default(), WithOverrideStore(store))
	require.NoError(t, lib2.LoadOverrides(ctx))
	require.Len(t, lib2.Overrides(), 1)
	assert.Equal(t, "admin", lib2.Overrides()[0].UpdatedBy)

	require.NoError(t, lib.DeleteOverride(ctx, maturity.Infrastructure, maturity.BandOptimized))
	assert.Equal(t, Default().RecommendationsFor(maturity.Infrastructure, maturity.BandOptimized),
		lib.RecommendationsFor(maturity.Infrastructure, maturity.BandOptimized))
	assert.ErrorIs(t, lib.DeleteOverride(ctx, maturity.Infrastructure, maturity.BandOptimized), ErrNotFound)
}

func TestLibraryOverrideValidation(t *testing.T) {
	lib := NewLibrary(nil)
	ctx := context.Background()

	_, err := lib.SetOverride(ctx, Override{Domain: "marketing", Band: maturity.BandInitial})
	assert.ErrorIs(t, err, maturity.ErrUnknownDomain)

	_, err = lib.SetOverride(ctx, Override{Domain: maturity.Cybersecurity, Band: "Expert"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = lib.SetOverride(ctx, Override{
		Domain: maturity.Cybersecurity, Band: maturity.BandInitial,
		Entry: Entry{Templates: []Template{{Description: "x"}}},
	})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLibraryOverrideKeepsCatalogFieldsNotOverridden(t *testing.T) {
	lib := NewLibrary(nil)
	_, err := lib.SetOverride(context.Background(), Override{
		Domain: maturity.Cybersecurity,
		Band:   maturity.BandInitial,
		Entry:  Entry{Recommendations: []string{"only this"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"only this"}, lib.RecommendationsFor(maturity.Cybersecurity, maturity.BandInitial))
	assert.Equal(t, Default().TemplatesFor(maturity.Cybersecurity, maturity.BandInitial),
		lib.TemplatesFor(maturity.Cybersecurity, maturity.BandInitial))
	_, ok := lib.Guide(maturity.Cybersecurity, maturity.BandInitial)
	assert.True(t, ok)
}

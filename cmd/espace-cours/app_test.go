package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/espace-cours/config"
	"github.com/creastat/espace-cours/roster"
	"github.com/creastat/espace-cours/session"
	"github.com/creastat/espace-cours/session/drivers"
)

const (
	appTeacher = `{"user":{"id":"p1","prenom":"Claire","nom":"Meyer","role":"prof"},"viewMode":"admin"}`
	appStudent = `{"user":{"id":"e1","prenom":"Ana","nom":"Lopez","role":"eleve"}}`
	appRoster  = `[{"id":"e1","prenom":"Ana","nom":"Lopez"},{"id":"e2","prenom":"Bilal","nom":"Haddad"}]`
)

func testConfig() config.Config {
	return config.Config{
		Store:      drivers.StoreTypeMemory,
		BasePath:   session.DefaultBasePath,
		SessionKey: session.DefaultSessionKey,
		RosterKey:  session.DefaultRosterKey,
	}
}

func newTestApp(t *testing.T, sessionJSON string) (*app, *drivers.InMemoryStore, *bytes.Buffer) {
	t.Helper()
	store := drivers.NewInMemoryStore()
	ctx := context.Background()
	if sessionJSON != "" {
		require.NoError(t, store.Set(ctx, session.DefaultSessionKey, []byte(sessionJSON)))
	}
	require.NoError(t, store.Set(ctx, session.DefaultRosterKey, []byte(appRoster)))

	out := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newApp(testConfig(), store, logger, out), store, out
}

func TestDispatch_Usage(t *testing.T) {
	a, _, out := newTestApp(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, a.dispatch(ctx, nil), errUsage)
	assert.Contains(t, out.String(), "usage:")

	assert.ErrorIs(t, a.dispatch(ctx, []string{"frobnicate"}), errUsage)
	assert.NoError(t, a.dispatch(ctx, []string{"help"}))
	assert.ErrorIs(t, a.dispatch(ctx, []string{"view-as", "e1", "e2"}), errUsage)
	assert.ErrorIs(t, a.dispatch(ctx, []string{"sync-roster"}), errUsage)
	assert.ErrorIs(t, a.dispatch(ctx, []string{"sync-roster", "ldap"}), errUsage)
}

func TestWhoami(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		a, _, out := newTestApp(t, "")
		require.NoError(t, a.dispatch(ctx, []string{"whoami"}))
		assert.Equal(t, "no session\n", out.String())
	})

	t.Run("student", func(t *testing.T) {
		a, _, out := newTestApp(t, appStudent)
		require.NoError(t, a.dispatch(ctx, []string{"whoami"}))
		assert.Equal(t, "viewer: Ana Lopez (e1, eleve)\n", out.String())
	})

	t.Run("teacher viewing student", func(t *testing.T) {
		a, _, out := newTestApp(t, appTeacher)
		require.NoError(t, a.dispatch(ctx, []string{"view-as", "e2"}))
		require.NoError(t, a.dispatch(ctx, []string{"whoami"}))

		assert.Contains(t, out.String(), "viewer: Claire Meyer (p1, prof)\n")
		assert.Contains(t, out.String(), "mode: eleve\n")
		assert.Contains(t, out.String(), "viewing as: Bilal Haddad (e2)\n")
		assert.Contains(t, out.String(), "preview: Bilal Haddad, return via /Activit-s-interactives_2nd-bac-pro/admin/index.html\n")
	})
}

func TestRequire(t *testing.T) {
	ctx := context.Background()

	a, _, out := newTestApp(t, "")
	require.NoError(t, a.dispatch(ctx, []string{"require"}))
	assert.Equal(t, "redirect: /Activit-s-interactives_2nd-bac-pro/login.html\n", out.String())

	a, _, out = newTestApp(t, appStudent)
	require.NoError(t, a.dispatch(ctx, []string{"require", "-teacher"}))
	assert.Equal(t, "redirect: /Activit-s-interactives_2nd-bac-pro/index.html\n", out.String())

	a, _, out = newTestApp(t, appTeacher)
	require.NoError(t, a.dispatch(ctx, []string{"require", "-teacher", "-admin"}))
	assert.Equal(t, "ok\n", out.String())

	assert.ErrorIs(t, a.dispatch(ctx, []string{"require", "-bogus"}), errUsage)
}

func TestModeSwitching(t *testing.T) {
	a, _, out := newTestApp(t, appTeacher)
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, []string{"view-as", "e1"}))
	assert.Equal(t, "e1", a.manager.EffectiveViewerID(ctx))

	require.NoError(t, a.dispatch(ctx, []string{"admin"}))
	assert.True(t, a.manager.IsAdminMode(ctx))

	require.NoError(t, a.dispatch(ctx, []string{"view-as"}))
	assert.True(t, a.manager.IsImpersonating(ctx))
	assert.Equal(t, "p1", a.manager.EffectiveViewerID(ctx))

	require.NoError(t, a.dispatch(ctx, []string{"return-admin"}))
	assert.True(t, a.manager.IsAdminMode(ctx))
	assert.Equal(t, "redirect: /Activit-s-interactives_2nd-bac-pro/admin/index.html\n", out.String())
}

func TestRosterAndLogout(t *testing.T) {
	a, store, out := newTestApp(t, appTeacher)
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, []string{"roster"}))
	assert.Equal(t, "e1\tAna Lopez\ne2\tBilal Haddad\n", out.String())

	out.Reset()
	require.NoError(t, a.dispatch(ctx, []string{"logout"}))
	assert.Equal(t, "redirect: /Activit-s-interactives_2nd-bac-pro/login.html\n", out.String())

	for _, key := range []string{session.DefaultSessionKey, session.DefaultRosterKey} {
		raw, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, raw, key)
	}
}

func TestSyncRoster(t *testing.T) {
	a, store, out := newTestApp(t, appTeacher)
	ctx := context.Background()
	a.sources = func(name string) (roster.Source, error) {
		assert.Equal(t, "sheets", name)
		return roster.SourceFunc(func(context.Context) ([]session.Student, error) {
			return []session.Student{{ID: "e9", GivenName: "Noa", FamilyName: "Petit"}}, nil
		}), nil
	}

	require.NoError(t, a.dispatch(ctx, []string{"sync-roster", "sheets"}))
	assert.Equal(t, "1 students\n", out.String())

	raw, err := store.Get(ctx, session.DefaultRosterKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"e9","prenom":"Noa","nom":"Petit"}]`, string(raw))
}

func TestRosterSource_MissingConfig(t *testing.T) {
	a, _, _ := newTestApp(t, "")

	_, err := a.rosterSource("supabase")
	assert.Error(t, err)

	_, err = a.rosterSource("sheets")
	assert.Error(t, err)
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := openStore(context.Background(), testConfig())
	require.NoError(t, err)
	assert.IsType(t, &drivers.InMemoryStore{}, store)
	assert.NoError(t, store.Close())
}

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipfolio/internal/models"
)

func newTestSession() *Session {
	s := NewSession("org-1", models.DefaultAlertSettings())
	s.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestAssetMutationRecomputesAlerts(t *testing.T) {
	s := newTestSession()
	assert.Empty(t, s.DerivedAlerts())

	expiry := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC) // 20 days out
	asset := s.CreateAsset(models.Asset{Name: "Mark", Type: models.AssetTrademark, ClientID: "c1", ExpiryDate: &expiry})

	// 20 days matches all three default thresholds.
	require.Len(t, s.DerivedAlerts(), 3)

	require.NoError(t, s.DeleteAsset(asset.ID))
	assert.Empty(t, s.DerivedAlerts(), "stale alerts must not survive a recompute")
}

func TestSettingsSaveRecomputes(t *testing.T) {
	s := newTestSession()
	expiry := time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC) // 45 days out
	s.CreateAsset(models.Asset{Name: "Mark", Type: models.AssetTrademark, ClientID: "c1", ExpiryDate: &expiry})
	require.Len(t, s.DerivedAlerts(), 2)

	// Narrowing the thresholds shrinks the alert list without touching
	// the entities.
	s.UpdateSettings(models.AlertSettings{AlertDays: []int{30}})
	assert.Empty(t, s.DerivedAlerts())

	s.UpdateSettings(models.AlertSettings{AlertDays: []int{60}})
	assert.Len(t, s.DerivedAlerts(), 1)
}

func TestClientDeleteConflicts(t *testing.T) {
	s := newTestSession()
	client := s.CreateClient(models.Client{Name: "Acme"})
	s.CreateAsset(models.Asset{Name: "Mark", Type: models.AssetTrademark, ClientID: client.ID})
	s.CreateAsset(models.Asset{Name: "Logo", Type: models.AssetCopyright, ClientID: client.ID})

	err := s.DeleteClient(client.ID)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "assets", conflict.Kind)
	assert.Equal(t, 2, conflict.BlockingCount)

	// Clearing the references unblocks the delete.
	for _, a := range s.ListAssets() {
		require.NoError(t, s.DeleteAsset(a.ID))
	}
	require.NoError(t, s.DeleteClient(client.ID))
	assert.Empty(t, s.ListClients())
}

func TestAssetDeleteBlockedByMatters(t *testing.T) {
	s := newTestSession()
	asset := s.CreateAsset(models.Asset{Name: "Mark", Type: models.AssetTrademark, ClientID: "c1"})
	s.CreateMatter(models.Matter{Title: "Renewal", ClientID: "c1", AssetID: asset.ID})

	err := s.DeleteAsset(asset.ID)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "matters", conflict.Kind)
	assert.Equal(t, 1, conflict.BlockingCount)
}

func TestDismissDerivedUntilRecompute(t *testing.T) {
	s := newTestSession()
	expiry := time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC)
	asset := s.CreateAsset(models.Asset{Name: "Mark", Type: models.AssetTrademark, ClientID: "c1", ExpiryDate: &expiry})

	before := s.DerivedAlerts()
	require.Len(t, before, 3)
	require.NoError(t, s.DismissDerived(before[0].ID))
	assert.Len(t, s.DerivedAlerts(), 2)
	assert.ErrorIs(t, s.DismissDerived("missing"), ErrNotFound)

	// Any recompute resurrects a still-applicable system alert.
	_, err := s.UpdateAsset(asset)
	require.NoError(t, err)
	assert.Len(t, s.DerivedAlerts(), 3)
}

func TestMatterCRUD(t *testing.T) {
	s := newTestSession()
	deadline := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	m := s.CreateMatter(models.Matter{Title: "Opposition", ClientID: "c1", NextDeadline: &deadline})

	got := s.DerivedAlerts()
	require.Len(t, got, 1)
	assert.Equal(t, models.AlertMatterDue, got[0].Type)
	assert.Equal(t, models.PriorityCritical, got[0].Priority)

	m.NextDeadline = nil
	_, err := s.UpdateMatter(m)
	require.NoError(t, err)
	assert.Empty(t, s.DerivedAlerts())

	_, err = s.UpdateMatter(models.Matter{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionsPerOrgIsolation(t *testing.T) {
	sessions := NewSessions(nil)
	a := sessions.ForOrg("org-a")
	b := sessions.ForOrg("org-b")

	a.CreateClient(models.Client{Name: "Acme"})
	assert.Len(t, a.ListClients(), 1)
	assert.Empty(t, b.ListClients())

	assert.Same(t, a, sessions.ForOrg("org-a"))
	sessions.Reset("org-a")
	assert.NotSame(t, a, sessions.ForOrg("org-a"))
}

func TestAdminConflicts(t *testing.T) {
	admin := NewAdmin()
	pkg := admin.CreatePackage(models.SubscriptionPackage{Name: "Pro", MaxUsers: 10})
	org := admin.CreateOrganization(models.Organization{Name: "Acme", PackageID: pkg.ID})
	user := admin.CreateUser(models.OrgUser{Email: "a@acme.test", Role: "admin", OrgID: org.ID})

	var conflict *ConflictError
	err := admin.DeletePackage(pkg.ID)
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "subscriptions", conflict.Kind)

	err = admin.DeleteOrganization(org.ID)
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "users", conflict.Kind)
	assert.Equal(t, 1, conflict.BlockingCount)

	require.NoError(t, admin.DeleteUser(user.ID))
	require.NoError(t, admin.DeleteOrganization(org.ID))
	require.NoError(t, admin.DeletePackage(pkg.ID))
}

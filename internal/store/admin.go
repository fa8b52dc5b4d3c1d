package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ipfolio/internal/models"
)

// Admin holds the cross-tenant administration records: organizations,
// subscription packages and org users. Deletes are conflict-checked the
// same way client deletes are.
type Admin struct {
	mu       sync.Mutex
	orgs     []models.Organization
	packages []models.SubscriptionPackage
	users    []models.OrgUser
}

func NewAdmin() *Admin {
	return &Admin{}
}

func (a *Admin) CreateOrganization(o models.Organization) models.Organization {
	a.mu.Lock()
	defer a.mu.Unlock()
	o.ID = uuid.New().String()
	o.CreatedAt = time.Now()
	a.orgs = append(a.orgs, o)
	return o
}

func (a *Admin) ListOrganizations() []models.Organization {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Organization, len(a.orgs))
	copy(out, a.orgs)
	return out
}

// DeleteOrganization refuses while users still belong to the organization.
func (a *Admin) DeleteOrganization(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	blocking := 0
	for _, u := range a.users {
		if u.OrgID == id {
			blocking++
		}
	}
	if blocking > 0 {
		return &ConflictError{Kind: "users", BlockingCount: blocking}
	}

	for i := range a.orgs {
		if a.orgs[i].ID == id {
			a.orgs = append(a.orgs[:i], a.orgs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (a *Admin) CreatePackage(p models.SubscriptionPackage) models.SubscriptionPackage {
	a.mu.Lock()
	defer a.mu.Unlock()
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()
	a.packages = append(a.packages, p)
	return p
}

func (a *Admin) ListPackages() []models.SubscriptionPackage {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.SubscriptionPackage, len(a.packages))
	copy(out, a.packages)
	return out
}

// DeletePackage refuses while organizations are still subscribed to it.
func (a *Admin) DeletePackage(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	blocking := 0
	for _, o := range a.orgs {
		if o.PackageID == id {
			blocking++
		}
	}
	if blocking > 0 {
		return &ConflictError{Kind: "subscriptions", BlockingCount: blocking}
	}

	for i := range a.packages {
		if a.packages[i].ID == id {
			a.packages = append(a.packages[:i], a.packages[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (a *Admin) CreateUser(u models.OrgUser) models.OrgUser {
	a.mu.Lock()
	defer a.mu.Unlock()
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now()
	a.users = append(a.users, u)
	return u
}

func (a *Admin) ListUsers(orgID string) []models.OrgUser {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []models.OrgUser
	for _, u := range a.users {
		if orgID == "" || u.OrgID == orgID {
			out = append(out, u)
		}
	}
	return out
}

func (a *Admin) DeleteUser(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.users {
		if a.users[i].ID == id {
			a.users = append(a.users[:i], a.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

package models

import "time"

// Asset types
const (
	AssetPatent      = "patent"
	AssetTrademark   = "trademark"
	AssetCopyright   = "copyright"
	AssetTradeSecret = "trade-secret"
)

// Matter and alert priorities
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Asset struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	Jurisdiction     string     `json:"jurisdiction,omitempty"`
	Status           string     `json:"status"`
	ClientID         string     `json:"client_id"`
	CreatedAt        time.Time  `json:"created_at"`
}

type Matter struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	ClientID     string     `json:"client_id"`
	AssetID      string     `json:"asset_id,omitempty"`
	NextDeadline *time.Time `json:"next_deadline,omitempty"`
	LastUpdated  time.Time  `json:"last_updated"`
}

type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	Priority  string     `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	MatterID  string     `json:"matter_id,omitempty"`
	AssetID   string     `json:"asset_id,omitempty"`
	ClientID  string     `json:"client_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PackageID string    `json:"package_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SubscriptionPackage struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MaxUsers   int       `json:"max_users"`
	MaxAssets  int       `json:"max_assets"`
	PriceCents int       `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrgUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	OrgID     string    `json:"org_id"`
	CreatedAt time.Time `json:"created_at"`
}

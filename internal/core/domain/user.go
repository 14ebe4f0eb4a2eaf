package domain

import "time"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Admin permission names granted per role.
const (
	PermAll           = "all"
	PermRead          = "read"
	PermWrite         = "write"
	PermManageClients = "manage_clients"
)

// Quota defaults applied when the remote row leaves them unset.
const (
	DefaultAvailableTokens  = 5000
	DefaultMonthlyAllowance = 5000
	DefaultStorageLimitGB   = 10
)

// ClientAccount models a construction-company customer of the platform.
type ClientAccount struct {
	ID                 string    `json:"id" bson:"_id,omitempty"`
	Name               string    `json:"name" bson:"name"`
	Email              string    `json:"email" bson:"email"`
	Password           string    `json:"-" bson:"password"`
	Company            string    `json:"company" bson:"company"`
	Status             string    `json:"status" bson:"status"`
	SubscriptionPlan   string    `json:"subscription_plan" bson:"subscription_plan"`
	SubscriptionStatus string    `json:"subscription_status" bson:"subscription_status"`
	AvailableTokens    int       `json:"available_tokens" bson:"available_tokens"`
	MonthlyAllowance   int       `json:"monthly_allowance" bson:"monthly_allowance"`
	StorageLimitGB     int       `json:"storage_limit_gb" bson:"storage_limit_gb"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
}

// ApplyDefaults fills zero-valued quota fields with platform defaults.
func (c *ClientAccount) ApplyDefaults() {
	if c.AvailableTokens == 0 {
		c.AvailableTokens = DefaultAvailableTokens
	}
	if c.MonthlyAllowance == 0 {
		c.MonthlyAllowance = DefaultMonthlyAllowance
	}
	if c.StorageLimitGB == 0 {
		c.StorageLimitGB = DefaultStorageLimitGB
	}
}

// AdminAccount models a back-office operator.
type AdminAccount struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	LastLogin   time.Time `json:"last_login"`
}

// HasPermission reports whether the account carries the named permission.
// The "all" permission implies every other one.
func (a *AdminAccount) HasPermission(perm string) bool {
	for _, p := range a.Permissions {
		if p == PermAll || p == perm {
			return true
		}
	}
	return false
}

// Principal is the authenticated actor returned by the Authenticator.
// Exactly one of Client or Admin is set, matching Kind.
type Principal struct {
	Kind   SessionKind    `json:"kind"`
	Client *ClientAccount `json:"client,omitempty"`
	Admin  *AdminAccount  `json:"admin,omitempty"`
}

// Email returns the principal's email regardless of variant.
func (p *Principal) Email() string {
	switch {
	case p.Client != nil:
		return p.Client.Email
	case p.Admin != nil:
		return p.Admin.Email
	}
	return ""
}

// ID returns the principal's identifier regardless of variant.
func (p *Principal) ID() string {
	switch {
	case p.Client != nil:
		return p.Client.ID
	case p.Admin != nil:
		return p.Admin.ID
	}
	return ""
}

package service

import (
	"time"

	"github.com/constructia/platform-api/internal/core/domain"
)

// clientEntry is one compiled-in demo credential. Lookup is exact-match on
// email; a matching entry short-circuits the remote table entirely.
type clientEntry struct {
	Email    string
	Password string
	Profile  domain.ClientAccount
}

// adminEntry maps a back-office username to its password. Profiles are
// derived, not stored: the username literal decides role and permissions.
type adminEntry struct {
	Username string
	Password string
}

// AllowList holds the compiled-in demo accounts checked before any remote
// lookup.
type AllowList struct {
	clients []clientEntry
	admins  []adminEntry
}

// DefaultAllowList returns the demo accounts shipped with the platform.
func DefaultAllowList() *AllowList {
	return &AllowList{
		clients: []clientEntry{
			{
				Email:    "cliente@test.com",
				Password: "password123",
				Profile: domain.ClientAccount{
					ID:                 "test-client-001",
					Name:               "Cliente de Prueba",
					Email:              "cliente@test.com",
					Company:            "Constructora Demo SL",
					Status:             "active",
					SubscriptionPlan:   "professional",
					SubscriptionStatus: "active",
					AvailableTokens:    domain.DefaultAvailableTokens,
					MonthlyAllowance:   domain.DefaultMonthlyAllowance,
					StorageLimitGB:     domain.DefaultStorageLimitGB,
					CreatedAt:          time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
				},
			},
			{
				Email:    "demo@constructia.com",
				Password: "demo2024",
				Profile: domain.ClientAccount{
					ID:                 "demo-client-001",
					Name:               "Demo ConstructIA",
					Email:              "demo@constructia.com",
					Company:            "ConstructIA Demo",
					Status:             "active",
					SubscriptionPlan:   "enterprise",
					SubscriptionStatus: "active",
					AvailableTokens:    domain.DefaultAvailableTokens,
					MonthlyAllowance:   domain.DefaultMonthlyAllowance,
					StorageLimitGB:     domain.DefaultStorageLimitGB,
					CreatedAt:          time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		admins: []adminEntry{
			{Username: "superadmin", Password: "super2024"},
			{Username: "admin", Password: "admin2024"},
		},
	}
}

// LookupClient returns the profile for an exact email+password match, or nil.
func (l *AllowList) LookupClient(email, password string) *domain.ClientAccount {
	for i := range l.clients {
		e := &l.clients[i]
		if e.Email == email && e.Password == password {
			profile := e.Profile
			return &profile
		}
	}
	return nil
}

// LookupAdmin returns the derived admin profile for an exact username+password
// match, or nil. The literal "superadmin" gets the superadmin role and the
// blanket permission; every other recognised username gets the standard set.
func (l *AllowList) LookupAdmin(username, password string, now time.Time) *domain.AdminAccount {
	for i := range l.admins {
		e := &l.admins[i]
		if e.Username != username || e.Password != password {
			continue
		}
		acct := &domain.AdminAccount{
			ID:        "admin-" + e.Username,
			Username:  e.Username,
			Email:     e.Username + "@constructia.com",
			Name:      e.Username,
			Status:    "active",
			LastLogin: now,
		}
		if e.Username == "superadmin" {
			acct.Role = domain.RoleSuperAdmin
			acct.Permissions = []string{domain.PermAll}
		} else {
			acct.Role = domain.RoleAdmin
			acct.Permissions = []string{domain.PermRead, domain.PermWrite, domain.PermManageClients}
		}
		return acct
	}
	return nil
}

// Package ruler resolves named system roles to concrete accounts.
package ruler

//go:generate mockgen -source=ruler.go -destination=mock_ruler.go -package=ruler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/goPredictd/internal/crypto"
)

// ErrRoleNotSet is returned when no account is configured for a role.
var ErrRoleNotSet = errors.New("role has no account")

// Role is a privileged system role.
type Role int

const (
	PlatformDividend Role = iota
	BridgeBurn
)

func (r Role) String() string {
	switch r {
	case PlatformDividend:
		return "platform_dividend"
	case BridgeBurn:
		return "bridge_burn"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole accepts the names produced by Role.String.
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(name) {
	case "platform_dividend":
		return PlatformDividend, nil
	case "bridge_burn":
		return BridgeBurn, nil
	default:
		return 0, fmt.Errorf("unknown role %q", name)
	}
}

// Directory resolves roles to accounts.
type Directory interface {
	GetAccount(role Role) (crypto.AccountID, error)
}

// Static is a fixed role table, usually built from configuration.
type Static map[Role]crypto.AccountID

// NewStatic parses a role name → hex account map.
func NewStatic(entries map[string]string) (Static, error) {
	s := make(Static, len(entries))
	for name, account := range entries {
		role, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		id, err := crypto.ParseAccountID(account)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", name, err)
		}
		s[role] = id
	}
	return s, nil
}

func (s Static) GetAccount(role Role) (crypto.AccountID, error) {
	id, ok := s[role]
	if !ok {
		return crypto.AccountID{}, fmt.Errorf("%s: %w", role, ErrRoleNotSet)
	}
	return id, nil
}

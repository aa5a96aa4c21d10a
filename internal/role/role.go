// Package role maps user roles to ordered permission levels.
package role

import (
	"math"

	"github.com/matt-dz/foodgram/internal/database"
)

type Role int

const (
	RoleAdmin   Role = 200
	RoleUser    Role = 100
	RoleUnknown Role = math.MinInt
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}

// Allows reports whether r grants at least the permissions of required.
func (r Role) Allows(required Role) bool {
	return r != RoleUnknown && r >= required
}

func FromDB(role database.Role) Role {
	return Parse(string(role))
}

func (r Role) ToDB() database.Role {
	switch r {
	case RoleAdmin:
		return database.RoleAdmin
	default:
		return database.RoleUser
	}
}

// Parse converts a role name, as stored in a token, to a Role.
func Parse(role string) Role {
	switch role {
	case "admin":
		return RoleAdmin
	case "user":
		return RoleUser
	default:
		return RoleUnknown
	}
}

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeRole is one member of the closed role set
type EmployeeRole string

const (
	RoleSalesperson EmployeeRole = "SALESPERSON"
	RoleFulfillment EmployeeRole = "FULFILLMENT"
	RoleAdmin       EmployeeRole = "ADMIN"
)

// EmployeeRoles lists every role in canonical order
var EmployeeRoles = []EmployeeRole{RoleSalesperson, RoleFulfillment, RoleAdmin}

func ParseEmployeeRole(s string) (EmployeeRole, error) {
	r := EmployeeRole(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range EmployeeRoles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown employee role %q", s)
}

// RoleSet is a duplicate-free set of roles kept in canonical order.
// Stored as a comma separated column, serialized as a JSON array.
type RoleSet []EmployeeRole

// NewRoleSet validates and normalizes roles
func NewRoleSet(roles ...EmployeeRole) (RoleSet, error) {
	var set RoleSet
	for _, r := range roles {
		parsed, err := ParseEmployeeRole(string(r))
		if err != nil {
			return nil, err
		}
		set = set.With(parsed)
	}
	return set, nil
}

func (s RoleSet) Has(role EmployeeRole) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of roles is in the set
func (s RoleSet) HasAny(roles ...EmployeeRole) bool {
	for _, r := range roles {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// With returns a new set containing role
func (s RoleSet) With(role EmployeeRole) RoleSet {
	out := make(RoleSet, 0, len(EmployeeRoles))
	for _, r := range EmployeeRoles {
		if r == role || s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Without returns a new set lacking role
func (s RoleSet) Without(role EmployeeRole) RoleSet {
	out := make(RoleSet, 0, len(s))
	for _, r := range s {
		if r != role {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) Value() (driver.Value, error) {
	return strings.Join(s.Strings(), ","), nil
}

func (s *RoleSet) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = RoleSet{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into RoleSet", src)
	}

	var roles []EmployeeRole
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			roles = append(roles, EmployeeRole(part))
		}
	}
	set, err := NewRoleSet(roles...)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	roles := make([]EmployeeRole, len(raw))
	for i, r := range raw {
		roles[i] = EmployeeRole(r)
	}
	set, err := NewRoleSet(roles...)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

type Employee struct {
	BaseModel
	Name     string   `gorm:"type:varchar(200);not null" json:"name"`
	Location Location `gorm:"type:varchar(20);not null;index" json:"location"`
	Roles    RoleSet  `gorm:"type:varchar(64);not null;default:''" json:"roles"`
	PINHash  string   `gorm:"column:pin_hash;type:varchar(255);default:''" json:"-"`
}

// SetPIN hashes and sets the employee's login PIN
func (e *Employee) SetPIN(pin string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.PINHash = string(hashed)
	return nil
}

// CheckPIN verifies pin against the stored hash. Employees without a PIN cannot log in.
func (e *Employee) CheckPIN(pin string) bool {
	if e.PINHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(e.PINHash), []byte(pin)) == nil
}

// EmployeeResponse is used for API responses (without the PIN hash)
type EmployeeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  Location  `json:"location"`
	Roles     RoleSet   `json:"roles"`
	HasPIN    bool      `json:"hasPin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Location:  e.Location,
		Roles:     e.Roles,
		HasPIN:    e.PINHash != "",
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

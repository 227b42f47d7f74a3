package user

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	role := Role(strings.ToLower(s))
	if !role.Valid() {
		return fmt.Errorf("invalid role: %s", s)
	}
	*r = role
	return nil
}

type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	Cart      *cart.Cart `json:"cart,omitempty"`
}

// TmpPassword is a single-use login credential issued at signup and
// delivered by email. It is consumed on first successful login.
type TmpPassword struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	ExpiresAt time.Time `json:"expires_at"`
}

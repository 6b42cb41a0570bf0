package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"timetracker/store"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleEmployee Role = "Employee"
)

// ParseRole accepts any casing of a known role.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "employee":
		return RoleEmployee, true
	}
	return "", false
}

type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	Role      Role   `json:"role"`
	DateAdded string `json:"date_added"`
}

func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManageEntriesFor reports whether u may edit the timesheet of userID.
func (u *User) CanManageEntriesFor(userID int) bool {
	if u.IsAdmin() {
		return true
	}
	return u.ID == userID
}

// CanViewAllEntries is true for roles that see every employee in reports.
func (u *User) CanViewAllEntries() bool {
	return u.IsAdmin()
}

// CheckPassword compares password against the stored value. Rows written by
// hand into the sheet may still hold plaintext, which is accepted as-is.
func (u *User) CheckPassword(password string) bool {
	if isBcryptHash(u.Password) {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	}
	return u.Password != "" && u.Password == password
}

func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

func UserFromRecord(r store.Record) User {
	role, ok := ParseRole(r["role"])
	if !ok {
		role = RoleEmployee
	}
	return User{
		ID:        atoi(r["id"]),
		Name:      r["name"],
		Username:  strings.TrimSpace(r["username"]),
		Password:  r["password"],
		Role:      role,
		DateAdded: r["date_added"],
	}
}

func (u User) Record() store.Record {
	return store.Record{
		"id":         itoa(u.ID),
		"name":       u.Name,
		"username":   u.Username,
		"password":   u.Password,
		"role":       string(u.Role),
		"date_added": u.DateAdded,
	}
}

func UsersFromRecords(records []store.Record) []User {
	out := make([]User, 0, len(records))
	for _, r := range records {
		out = append(out, UserFromRecord(r))
	}
	return out
}

package model

import "time"

// Role is the closed set of user roles. Authorization never compares raw
// strings coming off the wire; callers go through Instructor() / Valid().
type Role string

const (
	RoleAzubi     Role = "AZUBI"     // trainee, owns and edits reports
	RoleAusbilder Role = "AUSBILDER" // instructor, reviews reports
	RoleAdmin     Role = "ADMIN"     // instructor superset, created by seeding only
)

// Instructor reports whether the role may review any trainee's reports.
func (r Role) Instructor() bool {
	return r == RoleAusbilder || r == RoleAdmin
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	return r == RoleAzubi || r == RoleAusbilder || r == RoleAdmin
}

// Registerable reports whether the role may be chosen at self-registration.
func (r Role) Registerable() bool {
	return r == RoleAzubi || r == RoleAusbilder
}

// User represents an account in the system.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"email"` // unique login
	PasswordHash string    `gorm:"not null" json:"-"`                                   // bcrypt hash
	Role         Role      `gorm:"type:varchar(16);not null" json:"role"`
	Name         string    `gorm:"type:varchar(191)" json:"name,omitempty"` // optional display name
	CreatedAt    time.Time `json:"-"`

	Reports []Report `gorm:"foreignKey:TraineeID" json:"-"`
}

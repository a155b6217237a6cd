package models

// Role is either RoleDoctor or RolePatient.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// Initial is the id prefix used for users of this role.
func (r Role) Initial() string {
	if r == "" {
		return "u"
	}
	return string(r[0])
}

type User struct {
	ID       string `bson:"_id" json:"id"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Hide from JSON responses
	Name     string `bson:"name" json:"name"`
	Role     Role   `bson:"role" json:"role"`
	// AssignedTo is the doctor id for a patient. A doctor's patients are
	// derived from the patients pointing at them and never stored here.
	AssignedTo string `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
}

func (u User) IsDoctor() bool  { return u.Role == RoleDoctor }
func (u User) IsPatient() bool { return u.Role == RolePatient }

// NewUser is the signup payload: a User without an id.
type NewUser struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

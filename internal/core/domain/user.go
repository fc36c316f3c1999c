package domain

import "time"

// Role identifies what kind of actor the current user is. Roles are assigned
// by the backend at registration time and never change from the client's
// point of view.
type Role string

const (
	RoleUser    Role = "user"
	RoleRider   Role = "rider"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// SelfRegisterable reports whether the role may be chosen during
// client-side registration. Privileged roles (admin, company) are
// provisioned server-side only; rejecting them here is defense in depth,
// the server enforces the same policy independently.
func (r Role) SelfRegisterable() bool {
	return r == RoleUser || r == RoleRider
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleRider, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// roleHomes is the fixed role → home route mapping used by the route guard.
var roleHomes = map[Role]string{
	RoleUser:    "/home",
	RoleRider:   "/rider",
	RoleCompany: "/company",
	RoleAdmin:   "/admin",
}

// LoginRoute is where unauthenticated users are sent.
const LoginRoute = "/auth/login"

// AuthAreaPrefix marks the route segment that hosts the login/register
// screens; the guard never redirects to login from inside it.
const AuthAreaPrefix = "/auth"

// HomeRoute returns the landing route for the role. Unknown roles land on
// the regular user home rather than failing.
func (r Role) HomeRoute() string {
	if home, ok := roleHomes[r]; ok {
		return home
	}
	return roleHomes[RoleUser]
}

// User is the locally cached mirror of the remote user resource. The cache
// is read-mostly and may go stale; it is never the source of truth for
// authorization beyond local UI gating.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`

	// Role-conditional fields, absent for roles they do not apply to.
	Medical  *MedicalInfo `json:"medical,omitempty"`
	Vehicle  *VehicleRef  `json:"vehicle,omitempty"`
	Earnings float64      `json:"earnings,omitempty"`
}

// MedicalInfo carries the passenger details medical-transport rides need.
type MedicalInfo struct {
	Conditions   string `json:"conditions,omitempty"`
	Mobility     string `json:"mobility,omitempty"`
	EmergencyTel string `json:"emergency_tel,omitempty"`
}

// VehicleRef links a rider to the vehicle they drive.
type VehicleRef struct {
	VehicleID string `json:"vehicle_id"`
	Plate     string `json:"plate,omitempty"`
}

// AuthSession is what a successful login or registration yields: the bearer
// token plus the user it authenticates.
type AuthSession struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterInput is the client-side registration form. Validation tags are
// enforced before any network call; see service.Session.Register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required"`
	Phone    string `json:"phone,omitempty"`

	Medical *MedicalInfo `json:"medical,omitempty"`
}

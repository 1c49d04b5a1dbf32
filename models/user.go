package models

// User is a login account. It maps to the `users` table and always points at exactly
// one Employee and one Role.
type User struct {
	ID           int64   `db:"user_id" json:"user_id"`
	EmployeeID   int64   `db:"employee_id" json:"employee_id"`
	Username     string  `db:"username" json:"username"`
	PasswordHash string  `db:"password_hash" json:"-"`
	RoleID       int64   `db:"role_id" json:"role_id"`
	RoleName     string  `db:"role_name" json:"role_name"`
	FirstName    string  `db:"first_name" json:"first_name"`
	LastName     string  `db:"last_name" json:"last_name"`
	Email        string  `db:"email" json:"email"`
	LastLogin    *string `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}

// Profile is the sanitized view of a User returned by signup, login and /me.
type Profile struct {
	Username   string `json:"username"`
	RoleName   string `json:"role_name"`
	EmployeeID int64  `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

// Profile strips credential material from u.
func (u *User) Profile() Profile {
	return Profile{
		Username:   u.Username,
		RoleName:   u.RoleName,
		EmployeeID: u.EmployeeID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
	}
}

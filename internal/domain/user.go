package domain

type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone"`
	Name  string `db:"name" json:"name"`
	Hash  string `db:"password_hash" json:"-"`
	Role  string `db:"role" json:"role"`
}

// UserID satisfies the log package's context-user lookup.
func (u *User) UserID() string { return u.ID }

package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"airdee/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,phone,name,password_hash,role`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByPhone(phone string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE phone=?`, phone)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id,email,phone,name,password_hash,role)
	  VALUES(?,?,?,?,?,?)
	`, u.ID, u.Email, u.Phone, u.Name, u.Hash, u.Role)
	return err
}

func (r *UserRepo) UpdatePassword(userID, hash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, hash, userID)
	return err
}

// ---------- Sessions ----------

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.phone,u.name,u.password_hash,u.role
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`DELETE FROM sessions WHERE id=?`, sid)
	return err
}

// ---------- One-time phone codes ----------

// SaveOTP keeps at most one pending code per phone.
func (r *UserRepo) SaveOTP(phone, codeHash string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
	  INSERT INTO otp_codes(phone, code_hash, expires_at, created_at)
	  VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(phone) DO UPDATE SET code_hash=excluded.code_hash, expires_at=excluded.expires_at, created_at=CURRENT_TIMESTAMP
	`, phone, codeHash, expiresAt.UTC().Format(time.RFC3339))
	return err
}

// TakeOTP removes and returns the pending code hash for a phone.
// Expired or absent codes come back as sql.ErrNoRows.
func (r *UserRepo) TakeOTP(phone string) (string, error) {
	var row struct {
		Hash      string `db:"code_hash"`
		ExpiresAt string `db:"expires_at"`
	}
	if err := r.DB.Get(&row, `SELECT code_hash, expires_at FROM otp_codes WHERE phone=?`, phone); err != nil {
		return "", err
	}
	if _, err := r.DB.Exec(`DELETE FROM otp_codes WHERE phone=?`, phone); err != nil {
		return "", err
	}
	exp, err := time.Parse(time.RFC3339, row.ExpiresAt)
	if err != nil || time.Now().After(exp) {
		return "", sql.ErrNoRows
	}
	return row.Hash, nil
}

// ---------- Password reset tokens ----------

func (r *UserRepo) SaveResetToken(token, userID string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
	  INSERT INTO reset_tokens(token, user_id, expires_at, created_at)
	  VALUES(?, ?, ?, CURRENT_TIMESTAMP)
	`, token, userID, expiresAt.UTC().Format(time.RFC3339))
	return err
}

// TakeResetToken consumes a token and returns the owning user id.
func (r *UserRepo) TakeResetToken(token string) (string, error) {
	var row struct {
		UserID    string `db:"user_id"`
		ExpiresAt string `db:"expires_at"`
	}
	if err := r.DB.Get(&row, `SELECT user_id, expires_at FROM reset_tokens WHERE token=?`, token); err != nil {
		return "", err
	}
	if _, err := r.DB.Exec(`DELETE FROM reset_tokens WHERE token=?`, token); err != nil {
		return "", err
	}
	exp, err := time.Parse(time.RFC3339, row.ExpiresAt)
	if err != nil || time.Now().After(exp) {
		return "", sql.ErrNoRows
	}
	return row.UserID, nil
}

package services_test

import (
	"testing"
	"time"

	"airdee/internal/repos"
	"airdee/internal/services"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db := memdb(t)
	return &services.AuthService{
		Users:       repos.NewUserRepo(db),
		SigningKey:  "test-signing-key",
		CountryCode: "+66",
	}
}

// waitSession polls the holder until the condition holds; the change stream
// is applied on a separate goroutine.
func waitSession(t *testing.T, h *services.SessionHolder, want func(*services.Session) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if want(h.Session()) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session holder never reached the expected state: %+v", h.Session())
}

func TestNormalizePhone(t *testing.T) {
	svc := newAuth(t)
	cases := map[string]string{
		"+66812345678": "+66812345678",
		"0812345678":   "+66812345678",
		"812345678":    "+66812345678",
		" 0812345678 ": "+66812345678",
	}
	for in, want := range cases {
		if got := svc.NormalizePhone(in); got != want {
			t.Fatalf("NormalizePhone(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestLoginAndSessionHolder(t *testing.T) {
	svc := newAuth(t)
	holder := services.NewSessionHolder(svc, "")
	defer holder.Close()

	// the constructor resolves "no stored token" to signed out, not loading
	if holder.Loading() {
		t.Fatalf("holder should finish loading during construction")
	}
	if holder.Session() != nil {
		t.Fatalf("no stored token should resolve to signed out, got %+v", holder.Session())
	}

	if _, err := svc.Login("somsak@airdee.test", "wrong-password"); err != services.ErrBadCreds {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, err := svc.Login("nobody@airdee.test", "Passw0rd!"); err != services.ErrBadCreds {
		t.Fatalf("unknown email should look like bad creds, got %v", err)
	}

	sess, err := svc.Login("somsak@airdee.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Token == "" || sess.User.Email != "somsak@airdee.test" {
		t.Fatalf("bad session: %+v", sess)
	}

	waitSession(t, holder, func(s *services.Session) bool {
		return s != nil && s.User.ID == "u-somsak"
	})

	if err := svc.Logout(sess.Token); err != nil {
		t.Fatal(err)
	}
	waitSession(t, holder, func(s *services.Session) bool { return s == nil })

	// the revoked token no longer resolves, even though it has not expired
	if _, _, err := svc.CurrentUser(sess.Token); err != services.ErrBadToken {
		t.Fatalf("revoked token should fail, got %v", err)
	}
}

func TestSessionHolderResumesStoredToken(t *testing.T) {
	svc := newAuth(t)
	sess, err := svc.Login("somsak@airdee.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}

	// a valid persisted token seeds the holder at construction
	holder := services.NewSessionHolder(svc, sess.Token)
	defer holder.Close()
	if holder.Loading() {
		t.Fatalf("holder should finish loading during construction")
	}
	if s := holder.Session(); s == nil || s.User.ID != "u-somsak" {
		t.Fatalf("stored token not resumed: %+v", s)
	}

	// an invalid token resolves to signed out rather than an error
	stale := services.NewSessionHolder(svc, "not-a-token")
	defer stale.Close()
	if stale.Loading() || stale.Session() != nil {
		t.Fatalf("garbage token should resolve to signed out, got %+v", stale.Session())
	}
}

func TestCurrentUserRoundTrip(t *testing.T) {
	svc := newAuth(t)
	sess, err := svc.Login("admin@airdee.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	u, claims, err := svc.CurrentUser(sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "u-admin" || claims.Role != "ADMIN" || claims.Subject != "u-admin" {
		t.Fatalf("claims mismatch: user=%+v claims=%+v", u, claims)
	}

	if _, _, err := svc.CurrentUser("not-a-token"); err != services.ErrBadToken {
		t.Fatalf("garbage token should fail, got %v", err)
	}

	// tokens signed with a different key are rejected
	other := newAuth(t)
	other.SigningKey = "some-other-key"
	if _, _, err := other.CurrentUser(sess.Token); err != services.ErrBadToken {
		t.Fatalf("foreign signature should fail, got %v", err)
	}
}

func TestRefreshKeepsSessionAlive(t *testing.T) {
	svc := newAuth(t)
	sess, err := svc.Login("somsak@airdee.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := svc.Refresh(sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.CurrentUser(fresh.Token); err != nil {
		t.Fatalf("refreshed token should resolve: %v", err)
	}
	// the old token still maps to the same live session
	if _, _, err := svc.CurrentUser(sess.Token); err != nil {
		t.Fatalf("original token should still resolve: %v", err)
	}
}

func TestOTPFlowCreatesAccountOnFirstUse(t *testing.T) {
	svc := newAuth(t)

	code, err := svc.SendPhoneOTP("0899999999")
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != 6 {
		t.Fatalf("code should be six digits, got %q", code)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if _, err := svc.VerifyOTP("0899999999", wrong); err != services.ErrBadOTP {
		t.Fatalf("wrong code should fail, got %v", err)
	}

	// the wrong attempt consumed the slot; issue a fresh code
	code, err = svc.SendPhoneOTP("0899999999")
	if err != nil {
		t.Fatal(err)
	}
	sess, err := svc.VerifyOTP("0899999999", code)
	if err != nil {
		t.Fatal(err)
	}
	if sess.User.Phone != "+66899999999" || sess.User.Role != "USER" {
		t.Fatalf("bad OTP account: %+v", sess.User)
	}

	// codes are single use
	if _, err := svc.VerifyOTP("0899999999", code); err != services.ErrBadOTP {
		t.Fatalf("replayed code should fail, got %v", err)
	}

	// second sign-in finds the same account instead of creating another
	code, err = svc.SendPhoneOTP("0899999999")
	if err != nil {
		t.Fatal(err)
	}
	again, err := svc.VerifyOTP("0899999999", code)
	if err != nil {
		t.Fatal(err)
	}
	if again.User.ID != sess.User.ID {
		t.Fatalf("OTP sign-in duplicated the account: %s vs %s", again.User.ID, sess.User.ID)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := memdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db), SigningKey: "test-signing-key"}

	// unknown addresses are swallowed, not revealed
	if err := svc.ResetPassword("nobody@airdee.test"); err != nil {
		t.Fatalf("unknown email should not error: %v", err)
	}

	if err := svc.ResetPassword("somsak@airdee.test"); err != nil {
		t.Fatal(err)
	}
	var token string
	if err := db.Get(&token, `SELECT token FROM reset_tokens`); err != nil {
		t.Fatal(err)
	}

	if err := svc.CompleteReset(token, "N3wPassw0rd!"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login("somsak@airdee.test", "Passw0rd!"); err != services.ErrBadCreds {
		t.Fatalf("old password should stop working, got %v", err)
	}
	if _, err := svc.Login("somsak@airdee.test", "N3wPassw0rd!"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}

	// reset tokens are single use
	if err := svc.CompleteReset(token, "AnotherPass1!"); err != services.ErrBadToken {
		t.Fatalf("replayed token should fail, got %v", err)
	}

	// a token whose account was removed behaves like an expired one
	if err := svc.ResetPassword("admin@airdee.test"); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&token, `SELECT token FROM reset_tokens`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`DELETE FROM users WHERE id = 'u-admin'`); err != nil {
		t.Fatal(err)
	}
	if err := svc.CompleteReset(token, "Orphaned1!pw"); err != services.ErrBadToken {
		t.Fatalf("orphaned token should fail, got %v", err)
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc := newAuth(t)
	sess, err := svc.SignUp("mali@airdee.test", "S3cret-Pass!", "Mali")
	if err != nil {
		t.Fatal(err)
	}
	if sess.User.Role != "USER" || sess.User.Name != "Mali" {
		t.Fatalf("bad signup account: %+v", sess.User)
	}
	if _, err := svc.SignUp("mali@airdee.test", "S3cret-Pass!", "Mali II"); err == nil {
		t.Fatalf("duplicate email should fail")
	}
}

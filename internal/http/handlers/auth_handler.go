package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "airdee/internal/log"
	"airdee/internal/services"
	"airdee/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type otpSendReq struct {
	Phone string `json:"phone"`
}

type otpVerifyReq struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type resetReq struct {
	Email string `json:"email"`
}

type passwordReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if _, ok := validate.Email(req.Email); !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	sess, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": req.Email})
	return c.JSON(sess)
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}
	if !validate.Password(req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password must be 8-64 chars and mix cases, digits and symbols"})
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid display name"})
	}
	sess, err := h.Auth.SignUp(email, req.Password, name)
	if err != nil {
		applog.Error(c, "auth.signup.fail", err, map[string]any{"email": email})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not create account"})
	}
	applog.Audit(c, "auth.signup", map[string]any{"email": email})
	return c.Status(fiber.StatusCreated).JSON(sess)
}

func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req otpSendReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone number"})
	}
	code, err := h.Auth.SendPhoneOTP(phone)
	if err != nil {
		applog.Error(c, "auth.otp.send.fail", err, map[string]any{"phone": phone})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not send code"})
	}
	// Stand-in for the SMS dispatcher: the code goes to the server log only.
	applog.Info(c, "auth.otp.sent", map[string]any{"phone": h.Auth.NormalizePhone(phone), "code": code})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req otpVerifyReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	sess, err := h.Auth.VerifyOTP(req.Phone, req.Code)
	if err != nil {
		applog.Security(c, "auth.otp.verify.fail", map[string]any{"phone": req.Phone})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired code"})
	}
	applog.Audit(c, "auth.otp.verify", map[string]any{"phone": req.Phone})
	return c.JSON(sess)
}

// Reset always answers ok so the endpoint cannot be used to probe accounts.
func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	var req resetReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.Auth.ResetPassword(req.Email); err != nil {
		applog.Error(c, "auth.reset.fail", err, map[string]any{"email": req.Email})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// UpdatePassword serves both the signed-in change and the reset-link flow:
// with a bearer token it updates the current user, otherwise it consumes the
// one-time reset token from the body.
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var req passwordReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !validate.Password(req.NewPassword) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password must be 8-64 chars and mix cases, digits and symbols"})
	}

	if tok := bearerToken(c); tok != "" {
		u, _, err := h.Auth.CurrentUser(tok)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		if err := h.Auth.UpdatePassword(u.ID, req.NewPassword); err != nil {
			applog.Error(c, "auth.password.update.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update password"})
		}
		applog.Audit(c, "auth.password.update", nil)
		return c.JSON(fiber.Map{"ok": true})
	}

	if req.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing token"})
	}
	if err := h.Auth.CompleteReset(req.Token, req.NewPassword); err != nil {
		applog.Security(c, "auth.reset.complete.fail", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}
	applog.Audit(c, "auth.reset.complete", nil)
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	tok := bearerToken(c)
	if tok == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}
	sess, err := h.Auth.Refresh(tok)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}
	return c.JSON(sess)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tok := bearerToken(c); tok != "" {
		if err := h.Auth.Logout(tok); err != nil {
			applog.Error(c, "auth.logout.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not sign out"})
		}
	}
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// Session reports the identity behind the bearer token, or null when absent.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	tok := bearerToken(c)
	if tok == "" {
		return c.JSON(fiber.Map{"user": nil})
	}
	u, _, err := h.Auth.CurrentUser(tok)
	if err != nil {
		return c.JSON(fiber.Map{"user": nil})
	}
	return c.JSON(fiber.Map{"user": u})
}

package account_api

import (
	"fmt"
	"net/http"
	"time"

	"ms-railway/internal/account"
	"ms-railway/internal/auth"
	"ms-railway/internal/logger"
	"ms-railway/internal/utils"
)

type Handler struct {
	Service *account.Service
	Logger  *logger.Logger
}

type loginResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      interface{} `json:"user"`
}

type recoveryRequest struct {
	Account       string `json:"account"`
	Code          string `json:"code"`
	NewPassword   string `json:"newPassword"`
	RecoveryToken string `json:"recoveryToken"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in account.RegisterInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}

	user, err := h.Service.Register(r.Context(), in)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Register: %v", err))
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "Registration successful", "user", user.Profile())
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in account.LoginInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}

	res, err := h.Service.Login(r.Context(), in)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	profile, err := h.Service.Profile(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) CheckUser(w http.ResponseWriter, r *http.Request) {
	var in recoveryRequest
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}

	token, err := h.Service.CheckUser(r.Context(), in.Account)
	if err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Account found, verification code sent", "recoveryToken", token)
}

func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var in recoveryRequest
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}

	if err := h.Service.VerifyCode(r.Context(), in.Code, in.RecoveryToken); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Verification successful", "", nil)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in recoveryRequest
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), in.Account, in.NewPassword, in.RecoveryToken); err != nil {
		utils.WriteError(w, h.Logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "Password reset successful", "", nil)
}

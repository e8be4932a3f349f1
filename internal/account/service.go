package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-railway/internal/apperr"
	"ms-railway/internal/auth"
	"ms-railway/internal/config"
	"ms-railway/internal/logger"
	"ms-railway/internal/models"
	"ms-railway/internal/validation"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	FindByAccount(ctx context.Context, account string) (*models.User, error)
	Taken(ctx context.Context, username, idCard string) (bool, bool, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type RecoveryStore interface {
	Create(ctx context.Context, userID int64, account string) (string, error)
	Get(ctx context.Context, token string) (*auth.RecoveryTicket, error)
	MarkVerified(ctx context.Context, token string) error
	Consume(ctx context.Context, token string) error
}

type RegisterInput struct {
	Username string `json:"username" validate:"notblank,max=32"`
	Password string `json:"password" validate:"required"`
	IDType   string `json:"idType"`
	IDCard   string `json:"idCard" validate:"notblank"`
	RealName string `json:"realName" validate:"notblank"`
	Phone    string `json:"phone" validate:"notblank"`
	Email    string `json:"email" validate:"omitempty,email"`
	UserType string `json:"userType"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.UserProfile
}

type Service struct {
	DB       UserStore
	Recovery RecoveryStore
	Tokens   *auth.TokenManager
	Logger   *logger.Logger
	cfg      config.AuthConfig
}

func NewService(db UserStore, recovery RecoveryStore, tokens *auth.TokenManager, cfg config.AuthConfig, log *logger.Logger) *Service {
	return &Service{DB: db, Recovery: recovery, Tokens: tokens, Logger: log, cfg: cfg}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	usernameTaken, idCardTaken, err := s.DB.Taken(ctx, in.Username, in.IDCard)
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	if usernameTaken {
		return nil, apperr.Conflict("Username already exists")
	}
	if idCardTaken {
		return nil, apperr.Conflict("ID card is already registered")
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: hash,
		IDType:       defaultString(in.IDType, "身份证"),
		IDCard:       in.IDCard,
		RealName:     in.RealName,
		Phone:        in.Phone,
		Email:        in.Email,
		UserType:     defaultString(in.UserType, "成人"),
	}
	if err := s.DB.CreateUser(ctx, user); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.ConflictError{Msg: "Username or ID card already exists", Err: err}
		}
		return nil, apperr.FromStore(err, "user")
	}

	s.Logger.Info("AUTH", fmt.Sprintf("Registered user %d (%s)", user.ID, user.Username))
	return user, nil
}

// Login accepts a username or phone. Every failure is the same AuthError.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, apperr.Validation("username and password are required")
	}

	user, err := s.DB.FindByAccount(ctx, in.Username)
	if err != nil {
		if apperr.IsNotFound(apperr.FromStore(err, "user")) {
			s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("unknown account %q", in.Username))
			return nil, apperr.AuthError{}
		}
		return nil, apperr.FromStore(err, "user")
	}
	if !auth.VerifyPassword(user.PasswordHash, in.Password) {
		s.Logger.LogSecurity("LOGIN_FAILED", fmt.Sprintf("bad password for user %d", user.ID))
		return nil, apperr.AuthError{}
	}

	token, expiresAt, err := s.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Profile()}, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	user, err := s.DB.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	profile := user.Profile()
	return &profile, nil
}

// CheckUser is step one of recovery. It returns a ticket that later steps refer to.
func (s *Service) CheckUser(ctx context.Context, account string) (string, error) {
	if account == "" {
		return "", apperr.Validation("account is required")
	}
	user, err := s.DB.FindByAccount(ctx, account)
	if err != nil {
		return "", apperr.FromStore(err, "user")
	}

	token, err := s.Recovery.Create(ctx, user.ID, account)
	if err != nil {
		return "", apperr.Internal("failed to start recovery", err)
	}
	s.Logger.Info("AUTH", fmt.Sprintf("Recovery started for user %d", user.ID))
	return token, nil
}

// VerifyCode is step two. The code is fixed by configuration; no message is ever sent.
func (s *Service) VerifyCode(ctx context.Context, code, recoveryToken string) error {
	if code == "" {
		return apperr.Validation("code is required")
	}
	if code != s.cfg.RecoveryCode {
		return apperr.Validation("Invalid verification code")
	}
	if recoveryToken == "" {
		return nil
	}
	if err := s.Recovery.MarkVerified(ctx, recoveryToken); err != nil {
		return recoveryError(err)
	}
	return nil
}

// ResetPassword is step three. With RecoveryRequireVerified the ticket must be
// verified and belong to the same account.
func (s *Service) ResetPassword(ctx context.Context, account, newPassword, recoveryToken string) error {
	if account == "" || newPassword == "" {
		return apperr.Validation("account and newPassword are required")
	}

	user, err := s.DB.FindByAccount(ctx, account)
	if err != nil {
		return apperr.FromStore(err, "user")
	}

	if recoveryToken != "" || s.cfg.RecoveryRequireVerified {
		if recoveryToken == "" {
			return apperr.Validation("recoveryToken is required")
		}
		ticket, err := s.Recovery.Get(ctx, recoveryToken)
		if err != nil {
			return recoveryError(err)
		}
		if ticket.UserID != user.ID {
			s.Logger.LogSecurity("RECOVERY_MISMATCH", fmt.Sprintf("ticket for user %d used for user %d", ticket.UserID, user.ID))
			return apperr.Validation("recovery ticket does not match account")
		}
		if !ticket.Verified {
			return apperr.Validation("verification code has not been confirmed")
		}
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.DB.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperr.FromStore(err, "user")
	}

	if recoveryToken != "" {
		if err := s.Recovery.Consume(ctx, recoveryToken); err != nil {
			s.Logger.Warn("AUTH", fmt.Sprintf("failed to consume recovery ticket: %v", err))
		}
	}
	s.Logger.Info("AUTH", fmt.Sprintf("Password reset for user %d", user.ID))
	return nil
}

func recoveryError(err error) error {
	if errors.Is(err, auth.ErrRecoveryTicketNotFound) {
		return apperr.ValidationError{Msg: "recovery session expired, start again", Err: err}
	}
	return apperr.Internal("recovery store unavailable", err)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

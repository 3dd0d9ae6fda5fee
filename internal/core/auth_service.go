package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tutor-backend-go/internal/db"
	"tutor-backend-go/internal/identity"
	"tutor-backend-go/internal/models"
)

const (
	msgEmailInUse         = "This email address is already in use."
	msgInvalidCredentials = "Invalid credentials or user does not exist."
)

type authService struct {
	identities IdentityProvider
	verifier   PasswordVerifier // nil keeps login trusting the caller, see DESIGN.md
	userRepo   db.UserRepository
	logger     *zap.Logger
}

// NewAuthService creates an AuthService. verifier may be nil.
func NewAuthService(ip IdentityProvider, verifier PasswordVerifier, ur db.UserRepository, logger *zap.Logger) AuthService {
	return &authService{
		identities: ip,
		verifier:   verifier,
		userRepo:   ur,
		logger:     logger,
	}
}

// IssueToken registers or looks up the user and returns a custom token for them.
func (s *authService) IssueToken(ctx context.Context, req models.AuthTokenRequest) (string, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		s.logger.Warn("Auth attempt missing email or password")
		return "", newError(ErrInvalidArgument, "Email and password are required.", nil)
	}

	var (
		record *identity.Record
		err    error
	)
	if req.IsRegistering {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return "", newError(ErrInvalidArgument, "Name is required.", nil)
		}
		record, err = s.register(ctx, email, req.Password, name)
	} else {
		record, err = s.login(ctx, email, req.Password)
	}
	if err != nil {
		return "", err
	}

	token, err := s.identities.CustomToken(ctx, record.UID)
	if err != nil {
		s.logger.Error("Custom token creation failed", zap.String("uid", record.UID), zap.Error(err))
		return "", newError(ErrInternal, msgInvalidCredentials, err)
	}
	return token, nil
}

func (s *authService) register(ctx context.Context, email, password, name string) (*identity.Record, error) {
	record, err := s.identities.CreateUser(ctx, email, password, name)
	if err != nil {
		if errors.Is(err, identity.ErrEmailAlreadyExists) {
			s.logger.Info("Registration rejected, email already in use")
			return nil, newError(ErrConflict, msgEmailInUse, err)
		}
		s.logger.Error("Identity creation failed", zap.Error(err))
		return nil, newError(ErrInternal, msgInvalidCredentials, err)
	}

	profileEmail := record.Email
	if profileEmail == "" {
		profileEmail = email
	}
	if err := s.userRepo.Create(ctx, models.NewUser(record.UID, profileEmail, name)); err != nil {
		s.logger.Error("Profile creation failed, rolling back identity", zap.String("uid", record.UID), zap.Error(err))
		if delErr := s.identities.DeleteUser(ctx, record.UID); delErr != nil {
			s.logger.Error("Identity rollback failed", zap.String("uid", record.UID), zap.Error(delErr))
		}
		return nil, newError(ErrInternal, msgInvalidCredentials, err)
	}

	s.logger.Info("New user registered", zap.String("uid", record.UID))
	return record, nil
}

func (s *authService) login(ctx context.Context, email, password string) (*identity.Record, error) {
	record, err := s.identities.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, newError(identity.ErrUserNotFound, msgInvalidCredentials, err)
		}
		s.logger.Error("Identity lookup failed", zap.Error(err))
		return nil, newError(ErrInternal, msgInvalidCredentials, err)
	}

	if s.verifier != nil {
		uid, err := s.verifier.VerifyPassword(ctx, email, password)
		if err != nil {
			s.logger.Info("Password verification rejected login", zap.String("uid", record.UID), zap.Error(err))
			return nil, newError(identity.ErrInvalidCredentials, msgInvalidCredentials, err)
		}
		if uid != "" && uid != record.UID {
			return nil, newError(identity.ErrInvalidCredentials, msgInvalidCredentials, nil)
		}
	}
	return record, nil
}

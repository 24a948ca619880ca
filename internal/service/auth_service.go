package service

import (
	"context"
	"errors"
	"time"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"
	"retail-backoffice/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LoginRequest struct {
	EmployeeID uuid.UUID `json:"employeeId" validate:"uuid_required"`
	PIN        string    `json:"pin" validate:"required"`
}

type LoginResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expiresAt"`
	Employee  model.EmployeeResponse `json:"employee"`
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	// Authenticate checks the token and that the employee still exists
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}

type authService struct {
	employeeRepo repository.EmployeeRepository
	issuer       *jwt.Issuer
	log          *zap.Logger
}

func NewAuthService(employees repository.EmployeeRepository, issuer *jwt.Issuer, log *zap.Logger) AuthService {
	return &authService{employeeRepo: employees, issuer: issuer, log: log.Named("auth")}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Find employee; unknown ids and wrong pins look the same to the caller
	employee, err := s.employeeRepo.FindByID(ctx, req.EmployeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	// 3. Verify PIN
	if !employee.CheckPIN(req.PIN) {
		s.log.Info("Rejected login", zap.String("employee_id", employee.ID.String()))
		return nil, ErrInvalidCredentials
	}

	// 4. Issue token
	token, expiresAt, err := s.issuer.GenerateToken(employee.ID, employee.Name, employee.Roles.Strings())
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Employee:  employee.ToResponse(),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.issuer.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindByID(ctx, claims.EmployeeID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	// Roles may have changed since the token was issued
	claims.Roles = employee.Roles.Strings()
	claims.Name = employee.Name
	return claims, nil
}

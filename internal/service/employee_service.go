package service

import (
	"context"
	"strings"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateEmployeeRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Location string   `json:"location" validate:"required,location"`
	Roles    []string `json:"roles" validate:"required,min=1"`
	PIN      string   `json:"pin,omitempty" validate:"omitempty,numeric,min=4,max=12"`
}

type UpdateEmployeeRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Location string   `json:"location" validate:"required,location"`
	Roles    []string `json:"roles" validate:"required,min=1"`
}

// EmployeeQuery holds raw filter values; empty means no filter
type EmployeeQuery struct {
	Location string
	Role     string
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, req *UpdateEmployeeRequest) (*model.Employee, error)
	GetEmployees(ctx context.Context, q EmployeeQuery) ([]model.Employee, error)
	GetEmployeeByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	SetPIN(ctx context.Context, id uuid.UUID, pin string) error
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	log          *zap.Logger
}

func NewEmployeeService(employees repository.EmployeeRepository, log *zap.Logger) EmployeeService {
	return &employeeService{employeeRepo: employees, log: log.Named("employees")}
}

func (s *employeeService) CreateEmployee(ctx context.Context, req *CreateEmployeeRequest) (*model.Employee, error) {
	// 1. Validate request
	if err := validate(req); err != nil {
		return nil, err
	}
	roles, err := parseRoles(req.Roles)
	if err != nil {
		return nil, err
	}
	// validate has already checked the location tag
	location, _ := model.ParseLocation(req.Location)

	// 2. Build employee
	employee := &model.Employee{
		Name:     strings.TrimSpace(req.Name),
		Location: location,
		Roles:    roles,
	}
	if req.PIN != "" {
		if err := employee.SetPIN(req.PIN); err != nil {
			return nil, err
		}
	}

	// 3. Save
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	s.log.Info("Employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.Strings("roles", employee.Roles.Strings()),
	)
	return employee, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id uuid.UUID, req *UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "employee", id)
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	roles, err := parseRoles(req.Roles)
	if err != nil {
		return nil, err
	}
	// validate has already checked the location tag
	location, _ := model.ParseLocation(req.Location)

	employee.Name = strings.TrimSpace(req.Name)
	employee.Location = location
	employee.Roles = roles
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, lookupError(err, "employee", id)
	}
	return employee, nil
}

func (s *employeeService) GetEmployees(ctx context.Context, q EmployeeQuery) ([]model.Employee, error) {
	var filter repository.EmployeeFilter
	if q.Location != "" {
		location, err := model.ParseLocation(q.Location)
		if err != nil {
			return nil, invalidArgument("%s", err.Error())
		}
		filter.Location = &location
	}
	if q.Role != "" {
		role, err := model.ParseEmployeeRole(q.Role)
		if err != nil {
			return nil, invalidArgument("%s", err.Error())
		}
		filter.Role = &role
	}
	return s.employeeRepo.FindAll(ctx, filter)
}

func (s *employeeService) GetEmployeeByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "employee", id)
	}
	return employee, nil
}

func (s *employeeService) SetPIN(ctx context.Context, id uuid.UUID, pin string) error {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "employee", id)
	}
	if err := validate(&struct {
		PIN string `validate:"required,numeric,min=4,max=12"`
	}{pin}); err != nil {
		return err
	}
	if err := employee.SetPIN(pin); err != nil {
		return err
	}
	return lookupError(s.employeeRepo.UpdatePIN(ctx, id, employee.PINHash), "employee", id)
}

func parseRoles(raw []string) (model.RoleSet, error) {
	roles := make([]model.EmployeeRole, len(raw))
	for i, r := range raw {
		roles[i] = model.EmployeeRole(r)
	}
	set, err := model.NewRoleSet(roles...)
	if err != nil {
		return nil, invalidArgument("%s", err.Error())
	}
	return set, nil
}

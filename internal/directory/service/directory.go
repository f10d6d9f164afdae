package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/desempeno/evaluacion-backend/internal/directory/domain"
	"github.com/desempeno/evaluacion-backend/internal/directory/token"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
	"github.com/desempeno/evaluacion-backend/pkg/logger"
)

// EmployeeRepository is the persistence interface the directory service depends on
type EmployeeRepository interface {
	GetByCedula(ctx context.Context, cedula int64) (*domain.Employee, error)
	ListByLeader(ctx context.Context, liderCedula int64) ([]domain.Employee, error)
	UpdatePassword(ctx context.Context, cedula int64, passwordHash string) error
	UpdateSecurityQuestion(ctx context.Context, cedula int64, questionID, answer string) error
}

// EvaluationChecker reports which employees already have an evaluation for a year.
// Implemented by the evaluation repository.
type EvaluationChecker interface {
	EvaluatedCedulas(ctx context.Context, year int, cedulas []int64) (map[int64]bool, error)
}

// DirectoryService resolves employee identities and manager relationships
type DirectoryService struct {
	repo    EmployeeRepository
	checker EvaluationChecker
	tokens  *token.Manager
	logger  *logger.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(repo EmployeeRepository, checker EvaluationChecker, tokens *token.Manager, log *logger.Logger) *DirectoryService {
	return &DirectoryService{
		repo:    repo,
		checker: checker,
		tokens:  tokens,
		logger:  log.WithComponent("directory-service"),
	}
}

// Resolve looks up an employee by cedula and returns the profile projection
func (s *DirectoryService) Resolve(ctx context.Context, cedula int64) (*domain.Profile, error) {
	employee, err := s.repo.GetByCedula(ctx, cedula)
	if err != nil {
		return nil, err
	}

	profile := employee.ToProfile()
	return &profile, nil
}

// AuthResult is the outcome of a successful authentication
type AuthResult struct {
	Profile                domain.Profile
	RequiresSecurityUpdate bool
	Token                  string
}

// Authenticate verifies a cedula/password pair against the stored bcrypt hash.
// Unknown cedulas and wrong passwords both return invalid credentials so the
// login endpoint does not reveal which employees exist.
func (s *DirectoryService) Authenticate(ctx context.Context, cedula int64, password string) (*AuthResult, error) {
	employee, err := s.repo.GetByCedula(ctx, cedula)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if !employee.PasswordHash.Valid || employee.PasswordHash.String == "" {
		return nil, errors.InvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash.String), []byte(password)); err != nil {
		s.logger.Warn().Int64("cedula", cedula).Msg("failed login attempt")
		return nil, errors.InvalidCredentials()
	}

	accessToken, err := s.tokens.Generate(employee)
	if err != nil {
		return nil, errors.Internal("errors.internal")
	}

	return &AuthResult{
		Profile:                employee.ToProfile(),
		RequiresSecurityUpdate: !employee.HasSecurityQuestion(),
		Token:                  accessToken,
	}, nil
}

// Subordinate is a subordinate profile, optionally annotated with whether an
// evaluation already exists for the requested year.
type Subordinate struct {
	domain.Profile
	YaEvaluado *bool `json:"ya_evaluado,omitempty"`
}

// SubordinatesResult pairs the leader profile with their direct reports
type SubordinatesResult struct {
	Leader    domain.Profile
	Employees []Subordinate
}

// Subordinates lists the employees whose LIDER column points at the given
// cedula. The leader itself must resolve; an empty team is not an error.
// When year is non-zero each subordinate carries a ya_evaluado flag.
func (s *DirectoryService) Subordinates(ctx context.Context, liderCedula int64, year int) (*SubordinatesResult, error) {
	leader, err := s.repo.GetByCedula(ctx, liderCedula)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundWithKey("errors.leader_not_found")
		}
		return nil, err
	}

	employees, err := s.repo.ListByLeader(ctx, liderCedula)
	if err != nil {
		return nil, err
	}

	var evaluated map[int64]bool
	if year > 0 && len(employees) > 0 {
		cedulas := make([]int64, len(employees))
		for i, e := range employees {
			cedulas[i] = e.Cedula
		}

		evaluated, err = s.checker.EvaluatedCedulas(ctx, year, cedulas)
		if err != nil {
			return nil, err
		}
	}

	subordinates := make([]Subordinate, len(employees))
	for i, e := range employees {
		subordinates[i] = Subordinate{Profile: e.ToProfile()}
		if evaluated != nil {
			done := evaluated[e.Cedula]
			subordinates[i].YaEvaluado = &done
		}
	}

	return &SubordinatesResult{
		Leader:    leader.ToProfile(),
		Employees: subordinates,
	}, nil
}

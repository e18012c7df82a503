// Package controller implements the seeding run: it resets the store, then
// creates companies, their offices and the employees of those offices, in
// that order, through a repository and a random faker.
package controller

import (
	"context"
	"fmt"

	e "github.com/gartstein/populate/internal/company/errors"
	"github.com/gartstein/populate/internal/company/events"
	"github.com/gartstein/populate/internal/company/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, id, parentID uuid.UUID)
}

// Repository defines the storage operations a seeding run needs.
type Repository interface {
	Reset(ctx context.Context) error
	CreateCompany(ctx context.Context, company *models.Company) error
	CreateOffice(ctx context.Context, office *models.Office) error
	SetHeadOffice(ctx context.Context, companyID, officeID uuid.UUID) error
	CreateEmployee(ctx context.Context, employee *models.Employee) error
}

// Faker produces field values and random draws. Implementations must be
// deterministic for a fixed seed so runs can be replayed in tests.
type Faker interface {
	CompanyName() string
	Phone() string
	CompanyEmail() string
	Email() string
	URL() string
	ImageURL(width, height int) string
	City() string
	StreetAddress() string
	PostalCode() string
	FirstName() string
	LastName() string
	JobTitle() string
	IntBetween(min, max int) int
	Chance(p float64) bool
}

// Plan holds the generation constants of a run.
type Plan struct {
	MinCompanies   int
	MaxCompanies   int
	MinOffices     int
	MaxOffices     int
	TotalEmployees int
}

// DefaultPlan creates 2-4 companies with 2-3 offices each and 10 employees.
func DefaultPlan() Plan {
	return Plan{
		MinCompanies:   2,
		MaxCompanies:   4,
		MinOffices:     2,
		MaxOffices:     3,
		TotalEmployees: 10,
	}
}

// Validate rejects ranges that could leave a company without offices or
// the employee pool empty.
func (p Plan) Validate() error {
	switch {
	case p.MinCompanies < 1 || p.MaxCompanies < p.MinCompanies:
		return fmt.Errorf("%w: company range [%d, %d]", e.ErrInvalidInput, p.MinCompanies, p.MaxCompanies)
	case p.MinOffices < 1 || p.MaxOffices < p.MinOffices:
		return fmt.Errorf("%w: office range [%d, %d]", e.ErrInvalidInput, p.MinOffices, p.MaxOffices)
	case p.TotalEmployees < 0:
		return fmt.Errorf("%w: negative employee total %d", e.ErrInvalidInput, p.TotalEmployees)
	}
	return nil
}

// Summary reports what a completed run created.
type Summary struct {
	Companies   int
	Offices     int
	HeadOffices int
	Employees   int
}

// SeedOrchestrator runs the reset and the three generators strictly in
// sequence. Each entity is persisted before it is used as a parent.
type SeedOrchestrator struct {
	repo     Repository
	faker    Faker
	producer EventProducer
	logger   *zap.Logger
	plan     Plan
}

// NewSeedOrchestrator constructs a SeedOrchestrator. The plan is checked
// when Run starts.
func NewSeedOrchestrator(repo Repository, faker Faker, producer EventProducer, logger *zap.Logger, plan Plan) *SeedOrchestrator {
	if producer == nil {
		producer = events.Nop{}
	}
	return &SeedOrchestrator{
		repo:     repo,
		faker:    faker,
		producer: producer,
		logger:   logger.Named("seed_orchestrator"),
		plan:     plan,
	}
}

// Run clears the store and populates it. The first persistence error
// aborts the run; whatever was written before it stays in the store.
func (s *SeedOrchestrator) Run(ctx context.Context) (*Summary, error) {
	if err := s.plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset store: %w", err)
	}
	s.producer.Produce(events.StoreReset, uuid.Nil, uuid.Nil)
	s.logger.Info("Store reset")

	summary := &Summary{}
	offices, err := s.seedCompanies(ctx, summary)
	if err != nil {
		return nil, err
	}

	employees, err := s.seedEmployees(ctx, offices)
	if err != nil {
		return nil, err
	}
	summary.Employees = employees

	s.logger.Info("Database populated",
		zap.Int("companies", summary.Companies),
		zap.Int("offices", summary.Offices),
		zap.Int("employees", summary.Employees),
	)
	return summary, nil
}

// seedCompanies creates the companies and their offices and returns the
// flat pool of every office, in creation order.
func (s *SeedOrchestrator) seedCompanies(ctx context.Context, summary *Summary) ([]*models.Office, error) {
	count := s.faker.IntBetween(s.plan.MinCompanies, s.plan.MaxCompanies)
	s.logger.Info("Creating companies", zap.Int("count", count))

	var pool []*models.Office
	for i := 0; i < count; i++ {
		company, err := s.createCompany(ctx)
		if err != nil {
			return nil, fmt.Errorf("create company %d: %w", i+1, err)
		}
		summary.Companies++

		offices, err := s.seedOffices(ctx, company)
		if err != nil {
			return nil, err
		}
		summary.Offices += len(offices)
		summary.HeadOffices++
		pool = append(pool, offices...)
	}
	return pool, nil
}

// seedOffices creates the offices of one company. The first office is the
// head office, and the company reference to it is written before any other
// office of that company exists.
func (s *SeedOrchestrator) seedOffices(ctx context.Context, company *models.Company) ([]*models.Office, error) {
	count := s.faker.IntBetween(s.plan.MinOffices, s.plan.MaxOffices)

	offices := make([]*models.Office, 0, count)
	for j := 0; j < count; j++ {
		isHeadOffice := j == 0
		office, err := s.createOffice(ctx, company, isHeadOffice)
		if err != nil {
			return nil, fmt.Errorf("create office %d of company %s: %w", j+1, company.ID, err)
		}
		offices = append(offices, office)

		if isHeadOffice {
			if err := s.assignHeadOffice(ctx, company, office); err != nil {
				return nil, err
			}
		}
	}
	return offices, nil
}

func (s *SeedOrchestrator) assignHeadOffice(ctx context.Context, company *models.Company, office *models.Office) error {
	if err := s.repo.SetHeadOffice(ctx, company.ID, office.ID); err != nil {
		return fmt.Errorf("set head office of company %s: %w", company.ID, err)
	}
	company.HeadOfficeID = uuid.NullUUID{UUID: office.ID, Valid: true}
	s.producer.Produce(events.HeadOfficeAssigned, company.ID, office.ID)
	return nil
}

// seedEmployees spreads the employee total over the office pool and
// returns how many employees were created.
func (s *SeedOrchestrator) seedEmployees(ctx context.Context, offices []*models.Office) (int, error) {
	if len(offices) == 0 {
		return 0, fmt.Errorf("%w: no offices to staff", e.ErrInvalidInput)
	}

	assignment := distribute(offices, s.plan.TotalEmployees, func(n int) int {
		return s.faker.IntBetween(0, n-1)
	})
	s.logger.Info("Creating employees",
		zap.Int("count", len(assignment)),
		zap.Int("offices", len(offices)),
	)

	for i, office := range assignment {
		if _, err := s.createEmployee(ctx, office); err != nil {
			return i, fmt.Errorf("create employee %d: %w", i+1, err)
		}
	}
	return len(assignment), nil
}

// distribute returns the office of every employee to create: one per
// office in pool order, then total-len(pool) offices drawn with
// replacement through pick. pick(n) must return an index in [0, n).
// When the pool is at least as large as total, only the coverage part is
// returned.
func distribute(pool []*models.Office, total int, pick func(n int) int) []*models.Office {
	remaining := max(total-len(pool), 0)

	assignment := make([]*models.Office, 0, len(pool)+remaining)
	assignment = append(assignment, pool...)
	for i := 0; i < remaining; i++ {
		assignment = append(assignment, pool[pick(len(pool))])
	}
	return assignment
}

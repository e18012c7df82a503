package controller

import (
	"context"
	"fmt"

	"github.com/gartstein/populate/internal/company/events"
	"github.com/gartstein/populate/internal/company/fake"
	"github.com/gartstein/populate/internal/company/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// HeadOfficeName is the display name of every head office.
	HeadOfficeName = "Head Office"
	// Country is shared by every generated office.
	Country = "France"

	officeEmailChance   = 0.7
	officePhoneChance   = 0.6
	employeePhoneChance = 0.7

	imageWidth  = 1920
	imageHeight = 1080
)

// createCompany persists one company with every field generated and no
// head office yet.
func (s *SeedOrchestrator) createCompany(ctx context.Context) (*models.Company, error) {
	company := &models.Company{
		Name:    s.faker.CompanyName(),
		Phone:   s.faker.Phone(),
		Email:   s.faker.CompanyEmail(),
		Website: s.faker.URL(),
		Image:   s.faker.ImageURL(imageWidth, imageHeight),
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, err
	}

	s.producer.Produce(events.CompanySeeded, company.ID, uuid.Nil)
	s.logger.Debug("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("name", company.Name),
	)
	return company, nil
}

// createOffice persists one office of company. Email and phone are each
// present only part of the time.
func (s *SeedOrchestrator) createOffice(ctx context.Context, company *models.Company, isHeadOffice bool) (*models.Office, error) {
	city := s.faker.City()
	name := HeadOfficeName
	if !isHeadOffice {
		name = fmt.Sprintf("%s Office", city)
	}

	office := &models.Office{
		Name:      name,
		Address:   s.faker.StreetAddress(),
		City:      city,
		ZipCode:   s.faker.PostalCode(),
		Country:   Country,
		Email:     fake.Optional(s.faker, officeEmailChance, s.faker.CompanyEmail),
		Phone:     fake.Optional(s.faker, officePhoneChance, s.faker.Phone),
		CompanyID: company.ID,
	}
	if err := s.repo.CreateOffice(ctx, office); err != nil {
		return nil, err
	}

	s.producer.Produce(events.OfficeSeeded, office.ID, company.ID)
	s.logger.Debug("Office created",
		zap.String("office_id", office.ID.String()),
		zap.String("company_id", company.ID.String()),
		zap.Bool("head_office", isHeadOffice),
	)
	return office, nil
}

// createEmployee persists one employee working in office.
func (s *SeedOrchestrator) createEmployee(ctx context.Context, office *models.Office) (*models.Employee, error) {
	employee := &models.Employee{
		FirstName: s.faker.FirstName(),
		LastName:  s.faker.LastName(),
		Email:     s.faker.Email(),
		Phone:     fake.Optional(s.faker, employeePhoneChance, s.faker.Phone),
		JobTitle:  s.faker.JobTitle(),
		OfficeID:  office.ID,
	}
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, err
	}

	s.producer.Produce(events.EmployeeSeeded, employee.ID, office.ID)
	return employee, nil
}

// Package fake produces realistic field values for seeded entities on top
// of gofakeit. A Generator owns its random source, so two generators built
// with the same non-zero seed yield the same sequence.
package fake

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gartstein/populate/internal/pkg/utils"
)

// Generator is the gofakeit-backed random faker.
type Generator struct {
	f *gofakeit.Faker
}

// New returns a Generator seeded with seed. A zero seed picks a random one.
func New(seed uint64) *Generator {
	return &Generator{f: gofakeit.New(seed)}
}

func (g *Generator) CompanyName() string { return g.f.Company() }

func (g *Generator) Phone() string { return g.f.Phone() }

func (g *Generator) Email() string { return g.f.Email() }

// CompanyEmail returns a work address on a company-looking domain.
func (g *Generator) CompanyEmail() string {
	return strings.ToLower(g.f.FirstName()) + "@" + g.f.DomainName()
}

func (g *Generator) URL() string { return g.f.URL() }

// ImageURL returns a placeholder picture URL of the given size.
func (g *Generator) ImageURL(width, height int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/%d/%d", g.f.Number(1, 100000), width, height)
}

func (g *Generator) City() string { return g.f.City() }

func (g *Generator) StreetAddress() string { return g.f.Street() }

func (g *Generator) PostalCode() string { return g.f.Zip() }

func (g *Generator) FirstName() string { return g.f.FirstName() }

func (g *Generator) LastName() string { return g.f.LastName() }

func (g *Generator) JobTitle() string { return g.f.JobTitle() }

// IntBetween returns a uniform integer in [min, max].
func (g *Generator) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return g.f.IntRange(min, max)
}

// Chance returns true with probability p.
func (g *Generator) Chance(p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return g.f.Float64() < p
}

// Chancer is the probability source used by Optional.
type Chancer interface {
	Chance(p float64) bool
}

// Optional returns a pointer to gen() with probability p, nil otherwise.
// gen is not called when the value is absent.
func Optional[T any](r Chancer, p float64, gen func() T) *T {
	if !r.Chance(p) {
		return nil
	}
	return utils.Ptr(gen())
}

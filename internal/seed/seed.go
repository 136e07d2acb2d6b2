// Package seed loads reference data (tags, ingredients and optional users) from a TOML fixture file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/exceptions"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type Fixtures struct {
	Tags        []TagFixture        `toml:"tags"`
	Ingredients []IngredientFixture `toml:"ingredients"`
	Users       []UserFixture       `toml:"users"`
}

type TagFixture struct {
	Name string `toml:"name"`
	Slug string `toml:"slug"`
}

type IngredientFixture struct {
	Name string `toml:"name"`
	Unit string `toml:"measurement_unit"`
}

type UserFixture struct {
	Email     string `toml:"email"`
	Username  string `toml:"username"`
	FirstName string `toml:"first_name"`
	LastName  string `toml:"last_name"`
	Password  string `toml:"password"`
	Staff     bool   `toml:"staff"`
}

// Report counts what a run created; existing rows are skipped
type Report struct {
	Tags        int
	Ingredients int
	Users       int
	Skipped     int
}

func LoadFixtures(path string) (*Fixtures, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer file.Close()

	var fx Fixtures
	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures %s: %w", path, err)
	}
	return &fx, nil
}

type Seeder struct {
	db      *gorm.DB
	catalog service.ICatalogService
	auth    service.IAuthService
}

func NewSeeder(db *gorm.DB, catalog service.ICatalogService, auth service.IAuthService) *Seeder {
	return &Seeder{db: db, catalog: catalog, auth: auth}
}

// Apply inserts every fixture. It can be rerun: rows that already exist are counted as skipped.
func (s *Seeder) Apply(ctx context.Context, fx *Fixtures) (*Report, error) {
	report := &Report{}

	for _, t := range fx.Tags {
		_, err := s.catalog.CreateTag(ctx, t.Name, t.Slug)
		if created, err := s.outcome(report, "tag "+t.Name, err); err != nil {
			return report, err
		} else if created {
			report.Tags++
		}
	}

	for _, i := range fx.Ingredients {
		_, err := s.catalog.CreateIngredient(ctx, i.Name, i.Unit)
		if created, err := s.outcome(report, "ingredient "+i.Name, err); err != nil {
			return report, err
		} else if created {
			report.Ingredients++
		}
	}

	for _, u := range fx.Users {
		user, err := s.auth.Register(ctx, &types.RegisterRequest{
			Email:     u.Email,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Password:  u.Password,
		})
		created, err := s.outcome(report, "user "+u.Username, err)
		if err != nil {
			return report, err
		}
		if !created {
			continue
		}
		report.Users++
		if u.Staff {
			err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("is_staff", true).Error
			if err != nil {
				return report, fmt.Errorf("failed to promote %s: %w", u.Username, err)
			}
		}
	}

	log.Printf("[Seed] created %d tags, %d ingredients, %d users; skipped %d existing",
		report.Tags, report.Ingredients, report.Users, report.Skipped)
	return report, nil
}

func (s *Seeder) outcome(report *Report, what string, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, exceptions.ErrConflict):
		log.Printf("[Seed] %s already exists, skipping", what)
		report.Skipped++
		return false, nil
	default:
		return false, fmt.Errorf("failed to seed %s: %w", what, err)
	}
}

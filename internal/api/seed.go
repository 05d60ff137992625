package api

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

// Default instructor account created on first start so reviews work out of
// the box.
const (
	seedInstructorEmail    = "admin100@example.com"
	seedInstructorPassword = "admin100"
	seedInstructorName     = "Instructor Admin"
)

// SeedInstructor creates the default instructor account if it does not
// exist yet.
func (s *Server) SeedInstructor(ctx context.Context) error {
	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", seedInstructorEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedInstructorPassword), 12)
	if err != nil {
		return err
	}
	user := model.User{
		Email:        seedInstructorEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAusbilder,
		Name:         seedInstructorName,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	s.logger.Info("seeded instructor account")
	return nil
}

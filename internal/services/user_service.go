package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db              *gorm.DB
	currencyService CurrencyServicer
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, currencyService CurrencyServicer) UserServicer {
	return &userService{db: db, currencyService: currencyService}
}

// Register creates a new user together with their settings row. The two
// inserts run in one database transaction so a user never exists without
// settings.
func (s *userService) Register(email, password, name, surname, currencyID, language string) (*models.User, error) {
	// Validate input
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	// Check if user with email exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error; err != nil {
		return nil, storeError(err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	// The preferred currency must exist before anything is written
	if _, err := s.currencyService.GetCurrencyByID(currencyID); err != nil {
		return nil, err
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if language == "" {
		language = "en"
	}

	user := &models.User{
		Email:    strings.ToLower(email),
		Password: string(hashedPassword),
		Name:     name,
		Surname:  surname,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			// A concurrent registration with the same email can slip past
			// the count check and land on the unique index instead
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicateEmail
			}
			return storeError(err)
		}

		settings := &models.UserSettings{
			UserID:     user.ID,
			CurrencyID: currencyID,
			Language:   language,
		}
		if err := tx.Create(settings).Error; err != nil {
			return storeError(err)
		}

		user.Settings = settings
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// GetProfile retrieves a user with their settings and preferred currency.
func (s *userService) GetProfile(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Settings.Currency").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, storeError(err)
	}
	return &user, nil
}

// UpdateSettings applies a partial settings update. At least one field must
// be set; an empty update is rejected before any store access. The load and
// the update run in one database transaction.
func (s *userService) UpdateSettings(userID string, fields SettingsUpdateFields) (*models.UserSettings, error) {
	if fields.Empty() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one field is required")
	}

	if fields.CurrencyID != nil {
		if _, err := s.currencyService.GetCurrencyByID(*fields.CurrencyID); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if fields.CurrencyID != nil {
		updates["currency_id"] = *fields.CurrencyID
	}
	if fields.Language != nil {
		updates["language"] = *fields.Language
	}

	var settings models.UserSettings
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&settings).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return storeError(err)
		}

		if err := tx.Model(&settings).Updates(updates).Error; err != nil {
			return storeError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

package services

import (
	"testing"

	"moneta/internal/models"
	"moneta/internal/testutil"
)

func newUserTestServices(t *testing.T) (*testFixture, UserServicer) {
	t.Helper()
	f := newTestFixture(t)
	return f, NewUserService(f.db, NewCurrencyService(f.db))
}

func TestRegister(t *testing.T) {
	t.Run("creates_user_with_settings", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)
		currency := testutil.CreateTestCurrency(t, f.db)

		user, err := userSvc.Register("jane@test.com", "password123", "Jane", "Doe", currency.ID, "en")
		testutil.AssertNoError(t, err)
		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}

		var settings models.UserSettings
		testutil.AssertNoError(t, f.db.Where("user_id = ?", user.ID).First(&settings).Error)
		if settings.CurrencyID != currency.ID {
			t.Errorf("expected currency %s, got %s", currency.ID, settings.CurrencyID)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)
		currency := testutil.CreateTestCurrency(t, f.db)

		_, err := userSvc.Register("dup@test.com", "password123", "A", "", currency.ID, "en")
		testutil.AssertNoError(t, err)

		_, err = userSvc.Register("dup@test.com", "password456", "B", "", currency.ID, "en")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_currency_creates_nothing", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)

		_, err := userSvc.Register("ghost@test.com", "password123", "G", "", "00000000-0000-0000-0000-000000000000", "en")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")

		var count int64
		f.db.Model(&models.User{}).Where("email = ?", "ghost@test.com").Count(&count)
		if count != 0 {
			t.Error("expected no user after rejected registration")
		}
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)
		currency := testutil.CreateTestCurrency(t, f.db)

		user, err := userSvc.Register("hash@test.com", "password123", "H", "", currency.ID, "en")
		testutil.AssertNoError(t, err)
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
		if !userSvc.VerifyPassword(user, "password123") {
			t.Error("expected password verification to succeed")
		}
		if userSvc.VerifyPassword(user, "wrong") {
			t.Error("expected wrong password to fail verification")
		}
	})
}

func TestUpdateSettings(t *testing.T) {
	t.Run("empty_update_rejected", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)
		currency := testutil.CreateTestCurrency(t, f.db)
		user, err := userSvc.Register("settings@test.com", "password123", "S", "", currency.ID, "en")
		testutil.AssertNoError(t, err)

		_, err = userSvc.UpdateSettings(user.ID, SettingsUpdateFields{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("updates_language", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)
		currency := testutil.CreateTestCurrency(t, f.db)
		user, err := userSvc.Register("lang@test.com", "password123", "L", "", currency.ID, "en")
		testutil.AssertNoError(t, err)

		lang := "de"
		settings, err := userSvc.UpdateSettings(user.ID, SettingsUpdateFields{Language: &lang})
		testutil.AssertNoError(t, err)
		if settings.Language != "de" {
			t.Errorf("expected language de, got %s", settings.Language)
		}
	})

	t.Run("missing_currency", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)
		currency := testutil.CreateTestCurrency(t, f.db)
		user, err := userSvc.Register("cur@test.com", "password123", "C", "", currency.ID, "en")
		testutil.AssertNoError(t, err)

		missing := "00000000-0000-0000-0000-000000000000"
		_, err = userSvc.UpdateSettings(user.ID, SettingsUpdateFields{CurrencyID: &missing})
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})
}

func TestGetProfile(t *testing.T) {
	t.Run("includes_settings", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)
		currency := testutil.CreateTestCurrency(t, f.db)
		registered, err := userSvc.Register("profile@test.com", "password123", "P", "", currency.ID, "en")
		testutil.AssertNoError(t, err)

		user, err := userSvc.GetProfile(registered.ID)
		testutil.AssertNoError(t, err)
		if user.Settings == nil {
			t.Fatal("expected settings to be loaded")
		}
		if user.Settings.Currency.ID != currency.ID {
			t.Errorf("expected currency %s, got %s", currency.ID, user.Settings.Currency.ID)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		f, userSvc := newUserTestServices(t)
		defer f.teardown(t)

		_, err := userSvc.GetProfile("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

package service

import (
	"context"
	"testing"

	"github.com/adeolu/ridebid/internal/models"
)

func TestToggleDriverVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies and unverifies", func(t *testing.T) {
		repo := newMockUserRepo()
		repo.addUser(&models.User{ID: "driver-1", Role: models.RoleDriver})
		svc := NewAdminService(repo, newMockRequestRepo(), newMockFareRepo(nil))

		driver, err := svc.ToggleDriverVerification(ctx, "driver-1")
		if err != nil {
			t.Fatalf("ToggleDriverVerification() error = %v", err)
		}
		if !driver.IsVerified {
			t.Error("first toggle should verify")
		}

		driver, err = svc.ToggleDriverVerification(ctx, "driver-1")
		if err != nil {
			t.Fatalf("second ToggleDriverVerification() error = %v", err)
		}
		if driver.IsVerified {
			t.Error("second toggle should unverify")
		}
	})

	t.Run("passengers cannot be verified", func(t *testing.T) {
		repo := newMockUserRepo()
		repo.addUser(&models.User{ID: "passenger-1", Role: models.RolePassenger})
		svc := NewAdminService(repo, newMockRequestRepo(), newMockFareRepo(nil))

		_, err := svc.ToggleDriverVerification(ctx, "passenger-1")
		assertAPIError(t, err, "bad_request")
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewAdminService(newMockUserRepo(), newMockRequestRepo(), newMockFareRepo(nil))
		_, err := svc.ToggleDriverVerification(ctx, "no-such-id")
		assertAPIError(t, err, "not_found")
	})
}

func TestUpdateFareConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("merges only provided fields", func(t *testing.T) {
		svc := NewAdminService(newMockUserRepo(), newMockRequestRepo(), newMockFareRepo(testFareConfig()))

		newBase := int64(600)
		cfg, err := svc.UpdateFareConfig(ctx, &models.UpdateFareConfigRequest{BaseFare: &newBase})
		if err != nil {
			t.Fatalf("UpdateFareConfig() error = %v", err)
		}
		if cfg.BaseFare != 600 {
			t.Errorf("base fare = %d, want 600", cfg.BaseFare)
		}
		if cfg.RatePerKm != 100 || cfg.RatePerMinute != 20 {
			t.Errorf("rates = (%d, %d), want untouched (100, 20)", cfg.RatePerKm, cfg.RatePerMinute)
		}
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		svc := NewAdminService(newMockUserRepo(), newMockRequestRepo(), newMockFareRepo(testFareConfig()))
		_, err := svc.UpdateFareConfig(ctx, &models.UpdateFareConfigRequest{})
		assertAPIError(t, err, "validation_failed")
	})
}

package testutil_test

import (
	"testing"
	"time"

	"wealthtracker/internal/errors"
	"wealthtracker/internal/models"
	"wealthtracker/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "expenses", "investments", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestUser(t, first)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected a fresh database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	expense := testutil.CreateTestExpense(t, db, user.ID, "Food", "12.50", testutil.Date(2025, time.March, 1))
	testutil.AssertDecimal(t, "amount", "12.50", expense.Amount)

	inv := testutil.CreateTestInvestment(t, db, user.ID, models.AssetTypeStock, "10", "100", "120")
	if inv.UserID != user.ID || inv.AssetType != models.AssetTypeStock {
		t.Errorf("unexpected investment %+v", inv)
	}

	var stored models.Investment
	testutil.AssertNoError(t, db.First(&stored, "id = ?", inv.ID).Error)
	testutil.AssertDecimal(t, "stored quantity", "10", stored.Quantity)
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrInvestmentNotFound, "INVESTMENT_NOT_FOUND")
}

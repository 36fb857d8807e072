package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wealthtracker/internal/analytics"
	"wealthtracker/internal/models"
	"wealthtracker/internal/pagination"
	"wealthtracker/internal/testutil"
	"wealthtracker/internal/uuid"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

func newInvestmentService(t *testing.T) (*investmentService, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewInvestmentService(db).(*investmentService)
	svc.now = func() time.Time { return fixedNow }
	return svc, func() { testutil.TeardownTestDB(t, db) }
}

func validInvestmentInput() InvestmentInput {
	return InvestmentInput{
		AssetType:     models.AssetTypeStock,
		AssetName:     "Acme Corp",
		Quantity:      decimal.RequireFromString("10"),
		PurchasePrice: decimal.RequireFromString("100"),
		CurrentPrice:  decimal.RequireFromString("120"),
		PurchaseDate:  testutil.Date(2025, time.January, 1),
	}
}

func TestCreateInvestment(t *testing.T) {
	t.Run("derives_metrics", func(t *testing.T) {
		svc, teardown := newInvestmentService(t)
		defer teardown()
		user := testutil.CreateTestUser(t, svc.db)

		h, err := svc.CreateInvestment(user.ID, validInvestmentInput())
		testutil.AssertNoError(t, err)

		if h.ID == "" || h.UserID != user.ID {
			t.Fatalf("unexpected holding %+v", h)
		}
		testutil.AssertDecimal(t, "invested_amount", "1000", h.InvestedAmount)
		testutil.AssertDecimal(t, "current_value", "1200", h.CurrentValue)
		testutil.AssertDecimal(t, "absolute_gain", "200", h.AbsoluteGain)
		if h.PercentageGain != 20 {
			t.Errorf("expected 20%% gain, got %v", h.PercentageGain)
		}
		if h.DaysHeld != 73 {
			t.Errorf("expected 73 days held, got %d", h.DaysHeld)
		}
	})

	maturity := testutil.Date(2024, time.December, 31)
	tests := []struct {
		name   string
		mutate func(*InvestmentInput)
	}{
		{"unknown_asset_type", func(in *InvestmentInput) { in.AssetType = "real_estate" }},
		{"blank_name", func(in *InvestmentInput) { in.AssetName = " " }},
		{"zero_quantity", func(in *InvestmentInput) { in.Quantity = decimal.Zero }},
		{"zero_purchase_price", func(in *InvestmentInput) { in.PurchasePrice = decimal.Zero }},
		{"negative_current_price", func(in *InvestmentInput) { in.CurrentPrice = decimal.RequireFromString("-1") }},
		{"sub_cent_purchase_price", func(in *InvestmentInput) { in.PurchasePrice = decimal.RequireFromString("0.004") }},
		{"sub_cent_current_price", func(in *InvestmentInput) { in.CurrentPrice = decimal.RequireFromString("120.005") }},
		{"purchase_price_overflows_column", func(in *InvestmentInput) { in.PurchasePrice = decimal.RequireFromString("10000000000000") }},
		{"quantity_nine_decimals", func(in *InvestmentInput) { in.Quantity = decimal.RequireFromString("0.123456789") }},
		{"quantity_overflows_column", func(in *InvestmentInput) { in.Quantity = decimal.RequireFromString("100000000000") }},
		{"interest_rate_three_decimals", func(in *InvestmentInput) {
			rate := decimal.RequireFromString("7.125")
			in.InterestRate = &rate
		}},
		{"maturity_before_purchase", func(in *InvestmentInput) { in.MaturityDate = &maturity }},
		{"interest_rate_above_100", func(in *InvestmentInput) {
			rate := decimal.RequireFromString("100.5")
			in.InterestRate = &rate
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, teardown := newInvestmentService(t)
			defer teardown()
			user := testutil.CreateTestUser(t, svc.db)

			in := validInvestmentInput()
			tt.mutate(&in)
			_, err := svc.CreateInvestment(user.ID, in)
			testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		})
	}
}

func TestGetInvestments(t *testing.T) {
	svc, teardown := newInvestmentService(t)
	defer teardown()
	user := testutil.CreateTestUser(t, svc.db)
	other := testutil.CreateTestUser(t, svc.db)

	testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "10", "100", "120")
	testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeGold, "2", "50", "40")
	testutil.CreateTestInvestment(t, svc.db, other.ID, models.AssetTypeStock, "1", "1", "1")

	t.Run("all", func(t *testing.T) {
		list, err := svc.GetInvestments(user.ID, InvestmentFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if list.TotalItems != 2 || len(list.Data) != 2 {
			t.Fatalf("expected 2 holdings, got %d", list.TotalItems)
		}
		testutil.AssertDecimal(t, "total_invested", "1100", list.PortfolioSummary.TotalInvested)
		testutil.AssertDecimal(t, "total_current_value", "1280", list.PortfolioSummary.TotalCurrentValue)
	})

	t.Run("by_asset_type", func(t *testing.T) {
		gold := models.AssetTypeGold
		list, err := svc.GetInvestments(user.ID, InvestmentFilter{AssetType: &gold}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if list.TotalItems != 1 || list.Data[0].AssetType != models.AssetTypeGold {
			t.Fatalf("expected only the gold holding, got %+v", list.Data)
		}
		if list.PortfolioSummary.TotalInvestments != 2 {
			t.Errorf("expected summary over the whole portfolio, got %d", list.PortfolioSummary.TotalInvestments)
		}
	})
}

func TestInvestmentOwnership(t *testing.T) {
	svc, teardown := newInvestmentService(t)
	defer teardown()
	owner := testutil.CreateTestUser(t, svc.db)
	intruder := testutil.CreateTestUser(t, svc.db)
	inv := testutil.CreateTestInvestment(t, svc.db, owner.ID, models.AssetTypeStock, "10", "100", "120")

	_, err := svc.GetInvestmentByID(intruder.ID, inv.ID)
	testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")

	_, err = svc.UpdatePrice(intruder.ID, inv.ID, decimal.RequireFromString("1"))
	testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")

	err = svc.DeleteInvestment(intruder.ID, inv.ID)
	testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")

	h, err := svc.GetInvestmentByID(owner.ID, inv.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "current_price", "120", h.CurrentPrice)
}

func TestUpdateInvestment(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		svc, teardown := newInvestmentService(t)
		defer teardown()
		user := testutil.CreateTestUser(t, svc.db)
		inv := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "10", "100", "120")

		platform := "Zerodha"
		qty := decimal.RequireFromString("20")
		h, err := svc.UpdateInvestment(user.ID, inv.ID, InvestmentUpdate{Platform: &platform, Quantity: &qty})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, "current_value", "2400", h.CurrentValue)
		if h.Platform == nil || *h.Platform != "Zerodha" || h.AssetName != inv.AssetName {
			t.Errorf("unexpected holding after update %+v", h.Investment)
		}
	})

	t.Run("maturity_checked_against_stored_purchase_date", func(t *testing.T) {
		svc, teardown := newInvestmentService(t)
		defer teardown()
		user := testutil.CreateTestUser(t, svc.db)
		inv := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeFD, "1", "1000", "1000")

		maturity := testutil.Date(2024, time.June, 1)
		_, err := svc.UpdateInvestment(user.ID, inv.ID, InvestmentUpdate{MaturityDate: &maturity})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("sub_cent_price_not_rounded_to_zero", func(t *testing.T) {
		svc, teardown := newInvestmentService(t)
		defer teardown()
		user := testutil.CreateTestUser(t, svc.db)
		inv := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "10", "100", "120")

		price := decimal.RequireFromString("0.004")
		_, err := svc.UpdateInvestment(user.ID, inv.ID, InvestmentUpdate{CurrentPrice: &price})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		stored, err := svc.GetInvestmentByID(user.ID, inv.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "stored price", "120", stored.CurrentPrice)
	})
}

func TestUpdatePrice(t *testing.T) {
	svc, teardown := newInvestmentService(t)
	defer teardown()
	user := testutil.CreateTestUser(t, svc.db)
	inv := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "10", "100", "120")

	t.Run("rejects_non_positive", func(t *testing.T) {
		_, err := svc.UpdatePrice(user.ID, inv.ID, decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_PRICE")
	})

	t.Run("rejects_sub_cent", func(t *testing.T) {
		_, err := svc.UpdatePrice(user.ID, inv.ID, decimal.RequireFromString("0.004"))
		testutil.AssertAppError(t, err, "INVALID_PRICE")
	})

	t.Run("recomputes_metrics", func(t *testing.T) {
		h, err := svc.UpdatePrice(user.ID, inv.ID, decimal.RequireFromString("90"))
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, "absolute_gain", "-100", h.AbsoluteGain)
		if h.PercentageGain != -10 {
			t.Errorf("expected -10%% gain, got %v", h.PercentageGain)
		}

		stored, err := svc.GetInvestmentByID(user.ID, inv.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "stored price", "90", stored.CurrentPrice)
	})
}

func TestDeleteInvestment(t *testing.T) {
	svc, teardown := newInvestmentService(t)
	defer teardown()
	user := testutil.CreateTestUser(t, svc.db)
	inv := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "10", "100", "120")

	testutil.AssertNoError(t, svc.DeleteInvestment(user.ID, inv.ID))

	_, err := svc.GetInvestmentByID(user.ID, inv.ID)
	testutil.AssertAppError(t, err, "INVESTMENT_NOT_FOUND")
}

func TestBulkUpdatePrices(t *testing.T) {
	svc, teardown := newInvestmentService(t)
	defer teardown()
	user := testutil.CreateTestUser(t, svc.db)
	other := testutil.CreateTestUser(t, svc.db)

	a := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "1", "10", "10")
	b := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "1", "10", "10")
	c := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "1", "10", "10")
	foreign := testutil.CreateTestInvestment(t, svc.db, other.ID, models.AssetTypeStock, "1", "10", "10")

	result, err := svc.BulkUpdatePrices(user.ID, []analytics.PriceUpdate{
		{ID: a.ID, CurrentPrice: "11"},
		{ID: b.ID, CurrentPrice: "12.5"},
		{ID: c.ID, CurrentPrice: "13"},
		{ID: foreign.ID, CurrentPrice: "99"},
		{ID: "not-a-uuid", CurrentPrice: "5"},
		{ID: uuid.New(), CurrentPrice: "5"},
		{ID: a.ID, CurrentPrice: "abc"},
		{ID: c.ID, CurrentPrice: "0.004"},
	})
	testutil.AssertNoError(t, err)

	if result.UpdatedCount != 3 || result.FailedCount != 5 || len(result.FailedUpdates) != 5 {
		t.Fatalf("expected 3 updated and 5 failed, got %+v", result)
	}
	if result.FailedUpdates[0].ID != foreign.ID {
		t.Errorf("expected failures in input order, got %s first", result.FailedUpdates[0].ID)
	}

	stored, err := svc.GetInvestmentByID(user.ID, b.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "b price", "12.5", stored.CurrentPrice)

	stored, err = svc.GetInvestmentByID(user.ID, c.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "c price", "13", stored.CurrentPrice)

	var untouched models.Investment
	testutil.AssertNoError(t, svc.db.First(&untouched, "id = ?", foreign.ID).Error)
	testutil.AssertDecimal(t, "foreign price", "10", untouched.CurrentPrice)
}

func TestPortfolioAnalytics(t *testing.T) {
	svc, teardown := newInvestmentService(t)
	defer teardown()
	user := testutil.CreateTestUser(t, svc.db)

	winner := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeStock, "10", "100", "150")
	loser := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeCrypto, "1", "1000", "500")
	flat := testutil.CreateTestInvestment(t, svc.db, user.ID, models.AssetTypeGold, "5", "100", "100")

	t.Run("top_and_worst", func(t *testing.T) {
		top, err := svc.GetTopPerformers(user.ID, 2)
		testutil.AssertNoError(t, err)
		if len(top) != 2 || top[0].ID != winner.ID || top[1].ID != flat.ID {
			t.Errorf("unexpected top performers %v", ids(top))
		}

		worst, err := svc.GetWorstPerformers(user.ID, 1)
		testutil.AssertNoError(t, err)
		if len(worst) != 1 || worst[0].ID != loser.ID {
			t.Errorf("unexpected worst performers %v", ids(worst))
		}
	})

	t.Run("allocation", func(t *testing.T) {
		allocation, err := svc.GetAssetAllocation(user.ID)
		testutil.AssertNoError(t, err)
		if len(allocation) != 3 || allocation[0].AssetType != models.AssetTypeStock {
			t.Fatalf("expected stock to lead the allocation, got %+v", allocation)
		}
	})

	t.Run("platforms", func(t *testing.T) {
		platforms, err := svc.GetPlatformSummary(user.ID)
		testutil.AssertNoError(t, err)
		if len(platforms) != 1 || platforms[0].Platform != analytics.UnknownPlatform || platforms[0].Count != 3 {
			t.Errorf("expected one unknown platform group, got %+v", platforms)
		}
	})

	t.Run("trends", func(t *testing.T) {
		trend, err := svc.GetPerformanceTrends(user.ID)
		testutil.AssertNoError(t, err)
		if trend.TotalDataPoints != 1 {
			t.Fatalf("expected one purchase date, got %d", trend.TotalDataPoints)
		}
		testutil.AssertDecimal(t, "invested", "2500", trend.Timeline[0].InvestedAmount)
	})

	t.Run("statistics", func(t *testing.T) {
		stats, err := svc.GetStatistics(user.ID)
		testutil.AssertNoError(t, err)
		if stats.Performance.ProfitableCount != 1 || stats.Performance.LossMakingCount != 1 || stats.Performance.BreakEvenCount != 1 {
			t.Errorf("unexpected performance %+v", stats.Performance)
		}
		if stats.Extremes.BestPerformer.ID != winner.ID || stats.Extremes.WorstPerformer.ID != loser.ID {
			t.Errorf("unexpected extremes %+v", stats.Extremes)
		}
	})
}

func TestGetMaturingSoon(t *testing.T) {
	svc, teardown := newInvestmentService(t)
	defer teardown()
	user := testutil.CreateTestUser(t, svc.db)

	create := func(maturity *time.Time) *analytics.Holding {
		in := validInvestmentInput()
		in.AssetType = models.AssetTypeFD
		in.MaturityDate = maturity
		h, err := svc.CreateInvestment(user.ID, in)
		testutil.AssertNoError(t, err)
		return h
	}
	day := func(y int, m time.Month, d int) *time.Time {
		v := testutil.Date(y, m, d)
		return &v
	}

	create(nil)
	create(day(2025, time.March, 1))
	later := create(day(2025, time.April, 14))
	today := create(day(2025, time.March, 15))
	create(day(2025, time.April, 15))

	maturing, err := svc.GetMaturingSoon(user.ID, 30)
	testutil.AssertNoError(t, err)

	if len(maturing) != 2 || maturing[0].ID != today.ID || maturing[1].ID != later.ID {
		t.Fatalf("expected today's and the 30th day's maturities, got %v", ids(maturing))
	}
	if !maturing[0].IsMatured {
		t.Error("expected a holding maturing today to be matured")
	}
}

func TestGetStatisticsEmpty(t *testing.T) {
	svc, teardown := newInvestmentService(t)
	defer teardown()
	user := testutil.CreateTestUser(t, svc.db)

	_, err := svc.GetStatistics(user.ID)
	if !errors.Is(err, analytics.ErrNoInvestments) {
		t.Fatalf("expected ErrNoInvestments, got %v", err)
	}
}

func ids(hs []analytics.Holding) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

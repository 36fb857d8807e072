package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wealthtracker/internal/config"
	"wealthtracker/internal/logger"
	"wealthtracker/internal/models"
	"wealthtracker/internal/testutil"
	"wealthtracker/internal/validator"
)

// testApp holds the full application stack backed by an isolated SQLite database.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		AppName:           "WealthTracker",
		CORSAllowedOrigin: "*",
		JWTSecret:         "router-test-secret",
		JWTExpirationDur:  time.Hour,
	}
	return &testApp{DB: db, Router: NewRouter(cfg, db)}
}

func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","full_name":"Test User"}`, email)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	expectStatus(t, rec, http.StatusCreated)
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), user["id"].(string)
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func daysAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format("2006-01-02")
}

func TestHealthAndDocs(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/health", "", "")
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("unexpected health response %s", rec.Body.String())
	}

	rec = app.request("GET", "/swagger/doc.json", "", "")
	expectStatus(t, rec, http.StatusOK)
	doc := parseJSON(t, rec)
	if doc["basePath"] != "/api/v1" {
		t.Errorf("expected basePath /api/v1, got %v", doc["basePath"])
	}
	if _, ok := doc["paths"].(map[string]interface{})["/investments/analytics/statistics"]; !ok {
		t.Error("expected statistics route to be documented")
	}
}

func TestUnknownRoute(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/budgets", "", "")

	expectStatus(t, rec, http.StatusNotFound)
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", errObj["code"])
	}
}

func TestCORSPreflight(t *testing.T) {
	app := setupApp(t)

	rec := app.request("OPTIONS", "/api/v1/expenses", "", "")

	expectStatus(t, rec, http.StatusNoContent)
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestAuthFlow_RegisterLoginProfile(t *testing.T) {
	app := setupApp(t)

	token, userID := app.registerUser(t, "auth@test.com")
	if token == "" || userID == "" {
		t.Fatal("expected token and user id from registration")
	}

	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"auth@test.com","password":"password123","full_name":"Again"}`, "")
	expectStatus(t, rec, http.StatusConflict)

	rec = app.request("POST", "/api/v1/auth/login", `{"email":"auth@test.com","password":"password123"}`, "")
	expectStatus(t, rec, http.StatusOK)
	loginToken := parseJSON(t, rec)["access_token"].(string)

	rec = app.request("GET", "/api/v1/profile", "", loginToken)
	expectStatus(t, rec, http.StatusOK)
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" || user["id"] != userID {
		t.Errorf("unexpected profile %v", user)
	}

	rec = app.request("POST", "/api/v1/auth/login", `{"email":"auth@test.com","password":"wrong-password"}`, "")
	expectStatus(t, rec, http.StatusUnauthorized)

	for _, tok := range []string{"", "not-a-jwt"} {
		rec = app.request("GET", "/api/v1/expenses", "", tok)
		expectStatus(t, rec, http.StatusUnauthorized)
	}
}

func TestExpenseFlow_CRUDAndSummaries(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "spender@test.com")

	rec := app.request("POST", "/api/v1/expenses",
		fmt.Sprintf(`{"title":"Groceries","amount":"42.50","category":"Food","date":%q}`, today()), token)
	expectStatus(t, rec, http.StatusCreated)
	expenseID := parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)

	rec = app.request("POST", "/api/v1/expenses",
		fmt.Sprintf(`{"title":"Bus pass","amount":20,"category":"Transport","date":%q,"payment_method":"Card"}`, today()), token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("POST", "/api/v1/expenses",
		fmt.Sprintf(`{"title":"Refund","amount":-5,"category":"Food","date":%q}`, today()), token)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	rec = app.request("GET", "/api/v1/expenses", "", token)
	expectStatus(t, rec, http.StatusOK)
	list := parseJSON(t, rec)
	if list["total_items"].(float64) != 2 || list["total_amount"] != "62.5" {
		t.Errorf("unexpected list totals %v / %v", list["total_items"], list["total_amount"])
	}

	rec = app.request("GET", "/api/v1/expenses?category=Food", "", token)
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["total_items"].(float64) != 1 {
		t.Error("expected category filter to keep one expense")
	}

	rec = app.request("GET", "/api/v1/expenses/summary/by-category", "", token)
	expectStatus(t, rec, http.StatusOK)
	categories := parseJSON(t, rec)["categories"].([]interface{})
	if len(categories) != 2 || categories[0].(map[string]interface{})["category"] != "Food" {
		t.Errorf("expected Food first, got %v", categories)
	}

	rec = app.request("PUT", "/api/v1/expenses/"+expenseID, `{"amount":"50"}`, token)
	expectStatus(t, rec, http.StatusOK)
	if amount := parseJSON(t, rec)["expense"].(map[string]interface{})["amount"]; amount != "50" {
		t.Errorf("expected updated amount 50, got %v", amount)
	}

	rec = app.request("DELETE", "/api/v1/expenses/"+expenseID, "", token)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request("GET", "/api/v1/expenses/"+expenseID, "", token)
	expectStatus(t, rec, http.StatusNotFound)

	var audits int64
	app.DB.Model(&models.AuditLog{}).Where("resource_id = ?", expenseID).Count(&audits)
	if audits != 3 {
		t.Errorf("expected create, update and delete audit entries, got %d", audits)
	}
}

func TestExpenseFlow_OwnerIsolation(t *testing.T) {
	app := setupApp(t)
	owner, _ := app.registerUser(t, "owner@test.com")
	other, _ := app.registerUser(t, "other@test.com")

	rec := app.request("POST", "/api/v1/expenses",
		fmt.Sprintf(`{"title":"Rent","amount":900,"category":"Housing","date":%q}`, today()), owner)
	expectStatus(t, rec, http.StatusCreated)
	expenseID := parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)

	rec = app.request("GET", "/api/v1/expenses/"+expenseID, "", other)
	expectStatus(t, rec, http.StatusNotFound)

	rec = app.request("DELETE", "/api/v1/expenses/"+expenseID, "", other)
	expectStatus(t, rec, http.StatusNotFound)

	rec = app.request("GET", "/api/v1/expenses", "", other)
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["total_items"].(float64) != 0 {
		t.Error("expected other user to see no expenses")
	}
}

func TestInvestmentFlow_LifecycleAndAnalytics(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "investor@test.com")

	rec := app.request("GET", "/api/v1/investments/analytics/statistics", "", token)
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["message"] != "No investments found" {
		t.Errorf("expected empty statistics message, got %s", rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_type":"Stock","asset_name":"Acme","quantity":10,"purchase_price":100,"current_price":120,"purchase_date":%q,"platform":"Broker"}`, daysAgo(30)), token)
	expectStatus(t, rec, http.StatusCreated)
	stock := parseJSON(t, rec)["investment"].(map[string]interface{})
	stockID := stock["id"].(string)
	if stock["current_value"] != "1200" || stock["days_held"].(float64) != 30 {
		t.Errorf("unexpected derived metrics %v", stock)
	}

	rec = app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_type":"FD","asset_name":"Bank FD","quantity":1,"purchase_price":5000,"current_price":5000,"purchase_date":%q,"maturity_date":%q}`,
			daysAgo(300), time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")), token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("PATCH", "/api/v1/investments/"+stockID+"/price", `{"current_price":"90"}`, token)
	expectStatus(t, rec, http.StatusOK)
	if gain := parseJSON(t, rec)["investment"].(map[string]interface{})["percentage_gain"].(float64); gain != -10 {
		t.Errorf("expected -10%% gain after price drop, got %v", gain)
	}

	rec = app.request("PATCH", "/api/v1/investments/"+stockID+"/price", `{"current_price":0}`, token)
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	rec = app.request("POST", "/api/v1/investments/bulk-update-prices",
		fmt.Sprintf(`{"updates":[{"id":%q,"current_price":150},{"id":"missing","current_price":1}]}`, stockID), token)
	expectStatus(t, rec, http.StatusOK)
	bulk := parseJSON(t, rec)
	if bulk["updated_count"].(float64) != 1 || bulk["failed_count"].(float64) != 1 {
		t.Errorf("unexpected bulk result %v", bulk)
	}

	rec = app.request("GET", "/api/v1/investments?asset_type=Stock", "", token)
	expectStatus(t, rec, http.StatusOK)
	list := parseJSON(t, rec)
	if list["total_items"].(float64) != 1 {
		t.Errorf("expected one stock, got %v", list["total_items"])
	}
	summary := list["portfolio_summary"].(map[string]interface{})
	if summary["total_investments"].(float64) != 2 || summary["total_current_value"] != "6500" {
		t.Errorf("unexpected portfolio summary %v", summary)
	}

	rec = app.request("GET", "/api/v1/investments/analytics/maturing-soon?days=30", "", token)
	expectStatus(t, rec, http.StatusOK)
	if len(parseJSON(t, rec)["investments"].([]interface{})) != 1 {
		t.Error("expected the FD to mature within 30 days")
	}

	rec = app.request("GET", "/api/v1/investments/analytics/top-performers?limit=1", "", token)
	expectStatus(t, rec, http.StatusOK)
	top := parseJSON(t, rec)["investments"].([]interface{})
	if len(top) != 1 || top[0].(map[string]interface{})["id"] != stockID {
		t.Errorf("expected the stock to top the ranking, got %v", top)
	}

	rec = app.request("GET", "/api/v1/investments/analytics/statistics", "", token)
	expectStatus(t, rec, http.StatusOK)
	perf := parseJSON(t, rec)["performance"].(map[string]interface{})
	if perf["profitable_count"].(float64) != 1 || perf["break_even_count"].(float64) != 1 {
		t.Errorf("unexpected performance block %v", perf)
	}

	rec = app.request("DELETE", "/api/v1/investments/"+stockID, "", token)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request("GET", "/api/v1/investments/"+stockID, "", token)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestDashboardAndExportFlow(t *testing.T) {
	app := setupApp(t)
	token, userID := app.registerUser(t, "dash@test.com")

	rec := app.request("POST", "/api/v1/expenses",
		fmt.Sprintf(`{"title":"Dinner","amount":30,"category":"Food","date":%q}`, today()), token)
	expectStatus(t, rec, http.StatusCreated)
	rec = app.request("POST", "/api/v1/investments",
		fmt.Sprintf(`{"asset_type":"Gold","asset_name":"Coins","quantity":2,"purchase_price":500,"current_price":550,"purchase_date":%q}`, daysAgo(10)), token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("GET", "/api/v1/dashboard", "", token)
	expectStatus(t, rec, http.StatusOK)
	dashboard := parseJSON(t, rec)
	if dashboard["summary"].(map[string]interface{})["net_worth"] != "1100" {
		t.Errorf("unexpected summary %v", dashboard["summary"])
	}
	if dashboard["expenses"].(map[string]interface{})["current_month_total"] != "30" {
		t.Errorf("unexpected expenses block %v", dashboard["expenses"])
	}

	rec = app.request("GET", "/api/v1/dashboard/health-score", "", token)
	expectStatus(t, rec, http.StatusOK)
	score := parseJSON(t, rec)
	if s := score["score"].(float64); s < 0 || s > 100 {
		t.Errorf("score out of range: %v", s)
	}

	rec = app.request("GET", "/api/v1/export/expenses/csv", "", token)
	expectStatus(t, rec, http.StatusOK)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "Date,Title,Amount") {
		t.Errorf("unexpected expenses csv %q", rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "expenses.csv") {
		t.Errorf("unexpected content disposition %q", rec.Header().Get("Content-Disposition"))
	}

	rec = app.request("GET", "/api/v1/export/complete", "", token)
	expectStatus(t, rec, http.StatusOK)
	export := parseJSON(t, rec)
	if export["user_id"] != userID {
		t.Errorf("expected export for %s, got %v", userID, export["user_id"])
	}
	if n := len(export["investments"].(map[string]interface{})["data"].([]interface{})); n != 1 {
		t.Errorf("expected one exported investment, got %d", n)
	}
}

func TestDeleteAccountFlow(t *testing.T) {
	app := setupApp(t)
	token, userID := app.registerUser(t, "leaving@test.com")

	rec := app.request("POST", "/api/v1/expenses",
		fmt.Sprintf(`{"title":"Coffee","amount":3,"category":"Food","date":%q}`, today()), token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("DELETE", "/api/v1/profile", "", token)
	expectStatus(t, rec, http.StatusOK)

	var expenses int64
	app.DB.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&expenses)
	if expenses != 0 {
		t.Errorf("expected expenses to be removed with the account, got %d", expenses)
	}

	rec = app.request("POST", "/api/v1/auth/login", `{"email":"leaving@test.com","password":"password123"}`, "")
	expectStatus(t, rec, http.StatusUnauthorized)
}

// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "share-ledger/internal"
)

// testApp is the global application instance for testing.
var testApp *app.Application

// testServer is the httptest server. It stays nil when no test database is
// reachable, in which case every test skips instead of failing.
var testServer *httptest.Server

// TestMain wires the full application against a test database once for all
// tests in this package.
func TestMain(m *testing.M) {
	setupEnvVars()

	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "skipping API integration tests: %v\n", err)
		os.Exit(m.Run())
	}

	testServer = httptest.NewServer(testApp.HTTPHandler)
	defer testServer.Close()

	code := m.Run()

	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

// setupEnvVars points the application at the test database unless the CI
// environment already provides the variables.
func setupEnvVars() {
	defaults := map[string]string{
		"DB_HOST":     "localhost",
		"DB_PORT":     "5432",
		"DB_USER":     "user",
		"DB_PASSWORD": "password",
		"DB_NAME":     "shareledger_test",
		"DB_SSLMODE":  "disable",
		"JWT_SECRET":  "integration-test-secret",
	}
	for key, value := range defaults {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func requireServer(t *testing.T) {
	t.Helper()
	if testServer == nil {
		t.Skip("test database not available")
	}
}

// clearDatabase truncates all tables so each test starts from a clean ledger.
func clearDatabase(t *testing.T) {
	t.Helper()
	tables := []string{"bill_categories", "entries", "bills", "categories", "accounts"}
	for _, table := range tables {
		_, err := testApp.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", table))
		require.NoError(t, err, "Failed to truncate table %s", table)
	}
}

// makeRequest sends an HTTP request to the test server, optionally with a
// bearer token. The caller closes the response body.
func makeRequest(t *testing.T, method, path, token string, body io.Reader) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, testServer.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(respBody)
}

// registerAndLogin creates an account through the API and returns its ID and
// a bearer token.
func registerAndLogin(t *testing.T, username string) (int64, string) {
	t.Helper()
	payload := fmt.Sprintf(`{"username": %q, "password": "s3cret"}`, username)

	resp, body := makeRequest(t, "POST", "/auth/register", "", strings.NewReader(payload))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var account map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &account))
	accountID := int64(account["id"].(float64))

	resp, body = makeRequest(t, "POST", "/auth/login", "", strings.NewReader(payload))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var login map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &login))
	return accountID, login["token"].(string)
}

func accountBalance(t *testing.T, token string, accountID int64) decimal.Decimal {
	t.Helper()
	resp, body := makeRequest(t, "GET", fmt.Sprintf("/accounts/%d/balance", accountID), token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var balance map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &balance))
	amount, err := decimal.NewFromString(balance["amount"].(string))
	require.NoError(t, err)
	return amount
}

func TestAuthIntegration(t *testing.T) {
	requireServer(t)
	clearDatabase(t)

	t.Run("RegisterAndLogin", func(t *testing.T) {
		_, token := registerAndLogin(t, "alice")
		assert.NotEmpty(t, token)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		payload := `{"username": "alice", "password": "other"}`
		resp, _ := makeRequest(t, "POST", "/auth/register", "", strings.NewReader(payload))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		payload := `{"username": "alice", "password": "wrong"}`
		resp, _ := makeRequest(t, "POST", "/auth/login", "", strings.NewReader(payload))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ProtectedRouteWithoutToken", func(t *testing.T) {
		resp, _ := makeRequest(t, "GET", "/balances", "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestBillLifecycleIntegration(t *testing.T) {
	requireServer(t)
	clearDatabase(t)

	aliceID, token := registerAndLogin(t, "alice")
	bobID, _ := registerAndLogin(t, "bob")
	carolID, _ := registerAndLogin(t, "carol")

	var billID int64

	t.Run("CreateBill", func(t *testing.T) {
		payload := fmt.Sprintf(
			`{"title": "dinner", "amount": "10.00", "buyer_id": %d, "participant_ids": [%d, %d, %d]}`,
			aliceID, aliceID, bobID, carolID)
		resp, body := makeRequest(t, "POST", "/bills", token, strings.NewReader(payload))
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)

		var created struct {
			Bill struct {
				ID     int64  `json:"id"`
				Amount string `json:"amount"`
			} `json:"bill"`
			Entries []struct {
				AccountID int64  `json:"account_id"`
				Amount    string `json:"amount"`
			} `json:"entries"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &created))
		billID = created.Bill.ID

		// One positive buyer entry plus three shares, summing to zero.
		require.Len(t, created.Entries, 4)
		sum := decimal.Zero
		for _, e := range created.Entries {
			amount, err := decimal.NewFromString(e.Amount)
			require.NoError(t, err)
			sum = sum.Add(amount)
		}
		assert.True(t, sum.IsZero(), "entries sum to %s", sum)
	})

	t.Run("BalancesReflectTheSplit", func(t *testing.T) {
		// Alice paid 10.00 and owes a third of it herself.
		alice := accountBalance(t, token, aliceID)
		bob := accountBalance(t, token, bobID)
		carol := accountBalance(t, token, carolID)

		assert.True(t, alice.Add(bob).Add(carol).IsZero())
		assert.True(t, alice.IsPositive())
		assert.True(t, bob.IsNegative())
		assert.True(t, carol.IsNegative())
	})

	t.Run("EditBillResplits", func(t *testing.T) {
		payload := fmt.Sprintf(
			`{"title": "dinner, corrected", "amount": "12.00", "buyer_id": %d, "participant_ids": [%d, %d]}`,
			bobID, aliceID, carolID)
		resp, body := makeRequest(t, "PUT", fmt.Sprintf("/bills/%d", billID), token, strings.NewReader(payload))
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, body)

		bob := accountBalance(t, token, bobID)
		assert.True(t, bob.Equal(decimal.RequireFromString("12.00")))
	})

	t.Run("SettlementSuggestionsZeroTheLedger", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/balances/settlements", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, body)

		var transfers []struct {
			FromAccountID int64  `json:"from_account_id"`
			ToAccountID   int64  `json:"to_account_id"`
			Amount        string `json:"amount"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &transfers))
		require.NotEmpty(t, transfers)
		for _, tr := range transfers {
			assert.Equal(t, bobID, tr.ToAccountID)
		}
	})

	t.Run("RepaymentClearsDebt", func(t *testing.T) {
		carolBefore := accountBalance(t, token, carolID)
		payload := fmt.Sprintf(`{"buyer_id": %d, "receiver_id": %d, "amount": "%s"}`,
			carolID, bobID, carolBefore.Neg().StringFixed(2))
		resp, body := makeRequest(t, "POST", "/repayments", token, strings.NewReader(payload))
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)

		assert.True(t, accountBalance(t, token, carolID).IsZero())
	})

	t.Run("DeleteBillRemovesEntries", func(t *testing.T) {
		resp, _ := makeRequest(t, "DELETE", fmt.Sprintf("/bills/%d", billID), token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		respGet, _ := makeRequest(t, "GET", fmt.Sprintf("/bills/%d", billID), token, nil)
		defer respGet.Body.Close()
		assert.Equal(t, http.StatusNotFound, respGet.StatusCode)
	})

	t.Run("IntegrityCheckIsClean", func(t *testing.T) {
		resp, body := makeRequest(t, "GET", "/integrity", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, body)

		var report map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(body), &report))
		assert.Equal(t, float64(0), report["count"])
	})
}

func TestBillValidationIntegration(t *testing.T) {
	requireServer(t)
	clearDatabase(t)

	aliceID, token := registerAndLogin(t, "alice")

	t.Run("NoParticipants", func(t *testing.T) {
		payload := fmt.Sprintf(`{"title": "solo", "amount": "10.00", "buyer_id": %d, "participant_ids": []}`, aliceID)
		resp, body := makeRequest(t, "POST", "/bills", token, strings.NewReader(payload))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	})

	t.Run("FractionalCentAmount", func(t *testing.T) {
		payload := fmt.Sprintf(`{"title": "oops", "amount": "10.001", "buyer_id": %d, "participant_ids": [%d]}`, aliceID, aliceID)
		resp, _ := makeRequest(t, "POST", "/bills", token, strings.NewReader(payload))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("SelfRepayment", func(t *testing.T) {
		payload := fmt.Sprintf(`{"buyer_id": %d, "receiver_id": %d, "amount": "5.00"}`, aliceID, aliceID)
		resp, _ := makeRequest(t, "POST", "/repayments", token, strings.NewReader(payload))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UnknownBuyer", func(t *testing.T) {
		payload := fmt.Sprintf(`{"title": "ghost", "amount": "10.00", "buyer_id": 9999, "participant_ids": [%d]}`, aliceID)
		resp, _ := makeRequest(t, "POST", "/bills", token, strings.NewReader(payload))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestBillWizardIntegration(t *testing.T) {
	requireServer(t)
	clearDatabase(t)

	aliceID, token := registerAndLogin(t, "alice")
	bobID, _ := registerAndLogin(t, "bob")

	// Step 1: no wizard yet, the details input starts one.
	payload := `{"input": {"title": "picnic", "amount": "8.00"}}`
	resp, body := makeRequest(t, "POST", "/bills/wizard", token, strings.NewReader(payload))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var step1 struct {
		Wizard json.RawMessage `json:"wizard"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &step1))

	// Step 2: send the state back with the participants input.
	payload = fmt.Sprintf(`{"wizard": %s, "input": {"buyer_id": %d, "participant_ids": [%d]}}`,
		step1.Wizard, aliceID, bobID)
	resp, body = makeRequest(t, "POST", "/bills/wizard", token, strings.NewReader(payload))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var step2 struct {
		Wizard json.RawMessage `json:"wizard"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &step2))

	// Step 3: confirm commits the bill.
	payload = fmt.Sprintf(`{"wizard": %s, "input": {}}`, step2.Wizard)
	resp, body = makeRequest(t, "POST", "/bills/wizard", token, strings.NewReader(payload))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var created struct {
		Bill struct {
			Title  string `json:"title"`
			Amount string `json:"amount"`
		} `json:"bill"`
		Entries []json.RawMessage `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "picnic", created.Bill.Title)
	amount, err := decimal.NewFromString(created.Bill.Amount)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("8.00")))
	assert.Len(t, created.Entries, 2)

	assert.True(t, accountBalance(t, token, bobID).Equal(decimal.RequireFromString("-8.00")))
}

func TestGlobalHistoryPaginationIntegration(t *testing.T) {
	requireServer(t)
	clearDatabase(t)

	aliceID, token := registerAndLogin(t, "alice")
	bobID, _ := registerAndLogin(t, "bob")

	for i := 0; i < 12; i++ {
		payload := fmt.Sprintf(
			`{"title": "bill %d", "amount": "3.00", "buyer_id": %d, "participant_ids": [%d]}`,
			i, aliceID, bobID)
		resp, body := makeRequest(t, "POST", "/bills", token, strings.NewReader(payload))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	}

	resp, body := makeRequest(t, "GET", "/bills?limit=50&offset=0", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var page struct {
		Data       []json.RawMessage `json:"data"`
		Limit      int               `json:"limit"`
		TotalCount int64             `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &page))

	// Requested page size is clamped to the fixed history page size.
	assert.Len(t, page.Data, 10)
	assert.Equal(t, int64(12), page.TotalCount)
}

func TestCategoryIntegration(t *testing.T) {
	requireServer(t)
	clearDatabase(t)

	_, token := registerAndLogin(t, "alice")

	resp, body := makeRequest(t, "POST", "/categories", token, strings.NewReader(`{"name": "groceries"}`))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	respDup, _ := makeRequest(t, "POST", "/categories", token, strings.NewReader(`{"name": "groceries"}`))
	defer respDup.Body.Close()
	assert.Equal(t, http.StatusConflict, respDup.StatusCode)

	respList, bodyList := makeRequest(t, "GET", "/categories", token, nil)
	defer respList.Body.Close()
	require.Equal(t, http.StatusOK, respList.StatusCode)

	var categories []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(bodyList), &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "groceries", categories[0]["name"])
}

package freeagent

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-freeagent/apierr"
	"github.com/goliatone/go-freeagent/cache"
	"github.com/goliatone/go-freeagent/dates"
	"github.com/goliatone/go-freeagent/model"
	"github.com/goliatone/go-freeagent/pkg/testsupport"
	"github.com/goliatone/go-freeagent/rest"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viccon/sturdyc"
)

const testBaseURL = "https://api.test/v2"

const (
	contactsURL       = testBaseURL + "/contacts?per_page=100"
	activeContactsURL = testBaseURL + "/contacts?per_page=100&view=active_projects"
	projectsURL       = testBaseURL + "/projects?per_page=100&view=active"
	usersURL          = testBaseURL + "/users?per_page=100"
	tasksURL          = testBaseURL + "/tasks?per_page=100"
	timeslipsURL      = testBaseURL + "/timeslips?from_date=2024-01-01&per_page=100&to_date=2024-01-14"
	approvedURL       = testBaseURL + "/estimates?per_page=100&view=approved"
	draftURL          = testBaseURL + "/estimates?per_page=100&view=draft"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	return string(testsupport.LoadFixture(t, testsupport.FixturePath(name)))
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *testsupport.ScriptedTransport) {
	t.Helper()

	cfg := cache.DefaultConfig()
	cfg.Capacity = 200
	cfg.NumShards = 4
	cfg.Clock = sturdyc.NewTestClock(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	store, err := cache.NewStore(cfg)
	require.NoError(t, err)

	tr := testsupport.NewScriptedTransport()
	restClient := rest.NewClient(tr, rest.WithBaseURL(testBaseURL), rest.WithLogger(zerolog.Nop()))

	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return New(restClient, store, opts...), tr
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(t, want).Equal(got), "%s: want %s, got %s", msg, want, got)
}

func TestEndpoints(t *testing.T) {
	assert.Equal(t, "available_bands", CISBandsEndpoint.CollectionKey)
	assert.Equal(t, cache.PolicyReference, CISBandsEndpoint.Policy)
	assert.Equal(t, cache.PolicyReference, SalesTaxRatesEndpoint.Policy)
	assert.Equal(t, "sales_tax_rate", SalesTaxRatesEndpoint.SingularKey)
	assert.Equal(t, cache.PolicyBusiness, BillsEndpoint.Policy)
	assert.Equal(t, "timeslip", TimeslipsEndpoint.SingularKey)
}

func TestProjectsWithContacts(t *testing.T) {
	client, tr := newTestClient(t)
	tr.Page(projectsURL, fixture(t, "projects.json"), "")
	tr.Page(contactsURL, fixture(t, "contacts.json"), "")

	projects, err := client.ProjectsWithContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)

	require.NotNil(t, projects[0].Contact)
	assert.Equal(t, "Acme Ltd", projects[0].Contact.DisplayName())
	assert.Nil(t, projects[1].Contact, "unknown contact leaves the relation empty")

	var raw struct {
		Projects []model.Project `json:"projects"`
	}
	testsupport.LoadFixtureJSON(t, testsupport.FixturePath("projects.json"), &raw)
	require.Len(t, raw.Projects, len(projects))
	for i, want := range raw.Projects {
		assert.Equal(t, want, projects[i].Project, "project fields pass through enrichment unchanged")
	}

	_, err = client.ProjectsWithContacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tr.CallCount(projectsURL), "second report is served from cache")
	assert.Equal(t, 1, tr.CallCount(contactsURL))
}

func TestProjectsWithContacts_FetchFailure(t *testing.T) {
	client, tr := newTestClient(t)
	tr.On(http.MethodGet, projectsURL, testsupport.Route{Status: http.StatusServiceUnavailable})
	tr.Page(contactsURL, fixture(t, "contacts.json"), "")

	_, err := client.ProjectsWithContacts(context.Background())
	require.Error(t, err)

	var reqErr *apierr.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
	assert.Equal(t, 0, reqErr.PageIndex)
	assert.Contains(t, err.Error(), "fetch projects")
}

func scriptBilling(t *testing.T, tr *testsupport.ScriptedTransport) {
	t.Helper()
	tr.Page(contactsURL, fixture(t, "contacts.json"), "")
	tr.Page(projectsURL, fixture(t, "projects.json"), "")
	tr.Page(usersURL, fixture(t, "users.json"), "")
	tr.Page(tasksURL, fixture(t, "tasks.json"), "")
	tr.Page(timeslipsURL, fixture(t, "timeslips.json"), "")
}

func TestBillingDetail(t *testing.T) {
	client, tr := newTestClient(t)
	scriptBilling(t, tr)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)

	report, err := client.BillingDetail(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, report.Projects, 2)
	assert.Equal(t, from, report.From)
	assert.Equal(t, to, report.To)

	skates := report.Projects[0]
	assert.Equal(t, "Rocket skates", skates.Project.Name)
	require.NotNil(t, skates.Project.Contact)
	require.Len(t, skates.Project.Timeslips, 3, "timeslips outside the interval are dropped")
	assertDecimal(t, "6", skates.Hours, "skates hours")
	assertDecimal(t, "250", skates.Cost, "skates cost")

	require.Len(t, skates.Weeks, 2)
	assert.Equal(t, dates.Week{Year: 2024, Number: 1}, skates.Weeks[0].Week)
	assertDecimal(t, "3", skates.Weeks[0].Hours, "week 1 hours")
	assertDecimal(t, "100", skates.Weeks[0].Cost, "week 1 cost")
	assert.Equal(t, dates.Week{Year: 2024, Number: 2}, skates.Weeks[1].Week)
	assertDecimal(t, "150", skates.Weeks[1].Cost, "week 2 cost")

	for _, ts := range skates.Weeks[0].Timeslips {
		require.NotNil(t, ts.Task, ts.URL)
		require.NotNil(t, ts.User, ts.URL)
		assert.Equal(t, "Ada Lovelace", ts.User.FullName())
	}

	anvil := report.Projects[1]
	assert.Nil(t, anvil.Project.Contact)
	assertDecimal(t, "3", anvil.Hours, "anvil hours")
	assertDecimal(t, "240", anvil.Cost, "day rate over a 6 hour day")

	hours, cost := report.Totals()
	assertDecimal(t, "9", hours, "total hours")
	assertDecimal(t, "490", cost, "total cost")
}

func TestBillingDetail_FailureAbortsReport(t *testing.T) {
	client, tr := newTestClient(t)
	scriptBilling(t, tr)
	tr.On(http.MethodGet, tasksURL, testsupport.Route{Err: errors.New("connection reset")})

	_, err := client.BillingDetail(context.Background(),
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch tasks")
}

func TestMonthlyRevenue(t *testing.T) {
	var (
		mu      sync.Mutex
		skipped []string
	)
	client, tr := newTestClient(t, WithSkipHandler(func(url string, err error) {
		mu.Lock()
		defer mu.Unlock()
		skipped = append(skipped, url)
	}))

	tr.Page(activeContactsURL, fixture(t, "contacts.json"), "")
	tr.Page(projectsURL, fixture(t, "projects.json"), "")
	tr.Page(approvedURL, fixture(t, "estimates_approved.json"), "")
	tr.Page(draftURL, fixture(t, "estimates_draft.json"), "")
	tr.On(http.MethodGet, testBaseURL+"/estimates/1", testsupport.Route{Body: fixture(t, "estimate_1.json")})
	tr.On(http.MethodGet, testBaseURL+"/estimates/2", testsupport.Route{Status: http.StatusInternalServerError})
	tr.On(http.MethodGet, testBaseURL+"/estimates/3", testsupport.Route{Body: fixture(t, "estimate_3.json")})

	projection, err := client.MonthlyRevenue(context.Background())
	require.NoError(t, err)

	jan := dates.Month{Year: 2024, Month: time.January}
	feb := dates.Month{Year: 2024, Month: time.February}
	assert.Equal(t, []dates.Month{jan, feb}, projection.Months())

	require.Len(t, projection[jan], 1)
	assertDecimal(t, "1000", projection[jan][0].Amount, "january")
	require.NotNil(t, projection[jan][0].Contact)
	assert.Equal(t, "Acme Ltd", projection[jan][0].Contact.DisplayName())

	require.Len(t, projection[feb], 1)
	assertDecimal(t, "500", projection.Total(feb), "february")
	require.NotNil(t, projection[feb][0].Project)
	assert.Equal(t, "Anvil redesign", projection[feb][0].Project.Name)
	assert.Nil(t, projection[feb][0].Contact)

	assert.Equal(t, []string{testBaseURL + "/estimates/2"}, skipped)
}

func TestMonthlyRevenue_SourceFailure(t *testing.T) {
	client, tr := newTestClient(t)
	tr.Page(activeContactsURL, fixture(t, "contacts.json"), "")
	tr.Page(projectsURL, fixture(t, "projects.json"), "")
	tr.Page(approvedURL, fixture(t, "estimates_approved.json"), "")
	tr.On(http.MethodGet, draftURL, testsupport.Route{Status: http.StatusUnauthorized})

	_, err := client.MonthlyRevenue(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apierr.StatusCode(err))
}

func TestClient_WritesInvalidateFamily(t *testing.T) {
	client, tr := newTestClient(t)
	tr.Page(testBaseURL+"/bills?per_page=100&view=open", `{"bills":[{"url":"`+testBaseURL+`/bills/1","reference":"B1"}]}`, "")
	tr.On(http.MethodPut, testBaseURL+"/bills/1", testsupport.Route{Body: `{"bill":{"url":"` + testBaseURL + `/bills/1","reference":"B1b"}}`})

	ctx := context.Background()
	_, err := client.Bills.ListAll(ctx, map[string][]string{"view": {"open"}})
	require.NoError(t, err)
	_, err = client.Bills.ListAll(ctx, map[string][]string{"view": {"open"}})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.CallCount(testBaseURL+"/bills?per_page=100&view=open"))

	_, ok := client.Store().Get("bills?view=open")
	require.True(t, ok)

	_, err = client.Bills.Update(ctx, testBaseURL+"/bills/1", model.Bill{Reference: "B1b"})
	require.NoError(t, err)

	_, ok = client.Store().Get("bills?view=open")
	assert.False(t, ok)

	_, err = client.Bills.ListAll(ctx, map[string][]string{"view": {"open"}})
	require.NoError(t, err)
	assert.Equal(t, 2, tr.CallCount(testBaseURL+"/bills?per_page=100&view=open"))
}

func TestClient_ReferenceData(t *testing.T) {
	client, tr := newTestClient(t)
	tr.Page(testBaseURL+"/cis_bands?per_page=100", `{"available_bands":[{"name":"cis_gross","deduction_rate":"0.0"},{"name":"cis_standard","deduction_rate":"0.2"}]}`, "")

	bands, err := client.CISBands.ListAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, bands, 2)
	assert.Equal(t, "cis_standard", bands[1].Name)
}

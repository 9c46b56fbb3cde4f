package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"inv_checker/internal/domain"
	"inv_checker/internal/domain/entity"
	"inv_checker/internal/server"
	"inv_checker/pkg/errcodes"
	"inv_checker/pkg/rest"
	"inv_checker/pkg/tests"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type holderStub struct {
	report entity.Report
	ready  bool
}

func (h *holderStub) Latest() (entity.Report, bool) {
	return h.report, h.ready
}

type resolverStub struct {
	item entity.PricedItem
	err  error
}

func (r *resolverStub) Resolve(context.Context, string) (entity.PricedItem, error) {
	return r.item, r.err
}

type refresherStub struct {
	report entity.Report
	calls  int
}

func (r *refresherStub) RunOnce(context.Context) (entity.Report, error) {
	r.calls++
	return r.report, nil
}

type enqueuerStub struct {
	taskID string
	calls  int
}

func (e *enqueuerStub) EnqueueRefresh(context.Context, string) (string, error) {
	e.calls++
	return e.taskID, nil
}

const testSteamID = "76561198000000001"

func newTestServer(s server.Server) *httptest.Server {
	r := chi.NewRouter()
	s.RegisterRoutes(r)

	return httptest.NewServer(r)
}

func testReport() entity.Report {
	return entity.Report{
		SteamID:     testSteamID,
		Currency:    3,
		TotalValue:  107.5,
		GeneratedAt: time.Now().UTC(),
		Lines: []entity.ReportLine{
			{Name: "AK-47 | Redline", UnitPrice: 10.0, Count: 2},
			{Name: "M4A1-S | Printstream", UnitPrice: 87.5, Count: 1, Stale: true},
		},
		Unresolved: []string{"Glock-18 | Fade"},
	}
}

func TestGetValuation(t *testing.T) {
	rq := require.New(t)

	holder := &holderStub{report: testReport(), ready: true}

	srv := newTestServer(server.NewServer(
		server.NewValuationServer(holder, &resolverStub{}, &refresherStub{}, testSteamID),
	))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/valuation")
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)

	var report rest.ValuationReport
	rq.NoError(json.NewDecoder(resp.Body).Decode(&report))

	rq.Equal(testSteamID, report.SteamID)
	rq.Equal("EUR", report.Currency)
	rq.InDelta(107.5, report.TotalValue, 0.0001)
	rq.Len(report.Items, 2)
	rq.InDelta(20.0, report.Items[0].Subtotal, 0.0001)
	rq.True(report.Items[1].Stale)
	rq.Equal([]string{"Glock-18 | Fade"}, report.Unresolved)
}

func TestGetValuationNotReady(t *testing.T) {
	rq := require.New(t)

	srv := newTestServer(server.NewServer(
		server.NewValuationServer(&holderStub{}, &resolverStub{}, &refresherStub{}, testSteamID),
	))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/valuation")
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusNotFound, resp.StatusCode)

	var restErr struct {
		Code string `json:"code"`
	}
	rq.NoError(json.NewDecoder(resp.Body).Decode(&restErr))
	rq.Equal(errcodes.ValuationNotReady.String(), restErr.Code)
}

func TestGetItemPrice(t *testing.T) {
	rq := require.New(t)

	resolver := &resolverStub{item: entity.PricedItem{
		Name:      "AWP | Asiimov (Field-Tested)",
		UnitPrice: 42.5,
		Quantity:  7,
		FetchedAt: time.Now().UTC(),
	}}

	srv := newTestServer(server.NewServer(
		server.NewValuationServer(&holderStub{}, resolver, &refresherStub{}, testSteamID),
	))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/items/" + url.PathEscape("AWP | Asiimov (Field-Tested)") + "/price")
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)

	var price rest.ItemPrice
	rq.NoError(json.NewDecoder(resp.Body).Decode(&price))
	rq.InDelta(42.5, price.UnitPrice, 0.0001)
	rq.Equal(7, price.Quantity)
}

func TestGetItemPriceNotFound(t *testing.T) {
	rq := require.New(t)

	resolver := &resolverStub{err: domain.NewError(errcodes.PriceNotFound, "no market listing for item")}

	srv := newTestServer(server.NewServer(
		server.NewValuationServer(&holderStub{}, resolver, &refresherStub{}, testSteamID),
	))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/items/nonexistent/price")
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestPostRefreshEnqueues(t *testing.T) {
	rq := require.New(t)

	enqueuer := &enqueuerStub{taskID: "refresh-" + testSteamID}

	srv := newTestServer(server.NewServer(
		server.NewValuationServer(&holderStub{}, &resolverStub{}, &refresherStub{}, testSteamID).
			WithEnqueuer(enqueuer),
	))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/refresh", "application/json", http.NoBody)
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusAccepted, resp.StatusCode)
	rq.Equal(1, enqueuer.calls)

	var accepted rest.RefreshAccepted
	rq.NoError(json.NewDecoder(resp.Body).Decode(&accepted))
	rq.Equal("refresh-"+testSteamID, accepted.TaskID)
}

func TestPostRefreshRejectsForeignAccount(t *testing.T) {
	rq := require.New(t)

	refresher := &refresherStub{report: testReport()}

	srv := newTestServer(server.NewServer(
		server.NewValuationServer(&holderStub{}, &resolverStub{}, refresher, testSteamID),
	))
	defer srv.Close()

	api := tests.NewAPIClient(srv.URL, srv.Client())

	var restErr rest.Error

	resp, err := api.PostJSON(
		context.Background(),
		"/v1/refresh",
		http.Header{},
		`{"steamId":"76561198999999999"}`,
		nil,
		&restErr,
	)
	rq.NoError(err)

	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidSteamID.String()), restErr.Code)
	rq.Zero(refresher.calls)
}

func TestPostRefreshInline(t *testing.T) {
	rq := require.New(t)

	refresher := &refresherStub{report: testReport()}

	srv := newTestServer(server.NewServer(
		server.NewValuationServer(&holderStub{}, &resolverStub{}, refresher, testSteamID),
	))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/refresh", "application/json", http.NoBody)
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(1, refresher.calls)

	var report rest.ValuationReport
	rq.NoError(json.NewDecoder(resp.Body).Decode(&report))
	rq.InDelta(107.5, report.TotalValue, 0.0001)
}

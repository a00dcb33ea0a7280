package paging

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/goliatone/go-freeagent/apierr"
	"github.com/goliatone/go-freeagent/pkg/testsupport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	URL string `json:"url"`
}

const (
	page1 = "https://api.test/v2/bills?page=1&per_page=2"
	page2 = "https://api.test/v2/bills?page=2&per_page=2"
	page3 = "https://api.test/v2/bills?page=3&per_page=2"
)

func quiet() Option {
	return WithLogger(zerolog.Nop())
}

func TestFetchAllPages_ConcatenatesInArrivalOrder(t *testing.T) {
	st := testsupport.NewScriptedTransport().
		Page(page1, `{"bills":[{"url":"b1"},{"url":"b2"}]}`, page2).
		Page(page2, `{"bills":[{"url":"b3"},{"url":"b4"}]}`, page3).
		Page(page3, `{"bills":[{"url":"b5"}]}`, "")

	pages, err := FetchAllPages[item](context.Background(), st, page1, NewEnvelopeDecoder[item]("bills"), quiet())
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, page1, pages[0].URL)
	assert.Equal(t, page2, pages[0].Next)
	assert.Empty(t, pages[2].Next)

	items := Flatten(pages)
	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, it.URL)
	}
	assert.Equal(t, []string{"b1", "b2", "b3", "b4", "b5"}, got)

	calls := st.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, page2, calls[1].URL)
	assert.Equal(t, page3, calls[2].URL)
}

func TestFetchAllPages_FailsOnCycle(t *testing.T) {
	st := testsupport.NewScriptedTransport().
		Page(page1, `{"bills":[{"url":"b1"}]}`, page2).
		Page(page2, `{"bills":[{"url":"b2"}]}`, page1)

	pages, err := FetchAllPages[item](context.Background(), st, page1, NewEnvelopeDecoder[item]("bills"), quiet())

	require.Error(t, err)
	assert.Nil(t, pages)
	assert.True(t, errors.Is(err, apierr.ErrPageCycle))

	var cycle *apierr.PageCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, page1, cycle.URL)
	assert.Equal(t, 1, cycle.PageIndex)
	assert.Equal(t, 2, len(st.Calls()))
}

func TestFetchAllPages_FailsOnSelfReference(t *testing.T) {
	st := testsupport.NewScriptedTransport().
		Page(page1, `{"bills":[]}`, page1)

	_, err := FetchAllPages[item](context.Background(), st, page1, NewEnvelopeDecoder[item]("bills"), quiet())
	assert.ErrorIs(t, err, apierr.ErrPageCycle)
}

func TestFetchAllPages_StatusFailureDiscardsPartialResults(t *testing.T) {
	st := testsupport.NewScriptedTransport().
		Page(page1, `{"bills":[{"url":"b1"}]}`, page2).
		On(http.MethodGet, page2, testsupport.Route{Status: http.StatusInternalServerError, Body: "boom"})

	items, err := FetchAll[item](context.Background(), st, page1, NewEnvelopeDecoder[item]("bills"), quiet())

	assert.Nil(t, items)
	var reqErr *apierr.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Equal(t, 1, reqErr.PageIndex)
	assert.Equal(t, page2, reqErr.URL)
	assert.Equal(t, "boom", reqErr.Body)
}

func TestFetchAllPages_TransportErrorCarriesPageIndex(t *testing.T) {
	st := testsupport.NewScriptedTransport().
		On(http.MethodGet, page1, testsupport.Route{Err: errors.New("connection refused")})

	_, err := FetchAllPages[item](context.Background(), st, page1, NewEnvelopeDecoder[item]("bills"), quiet())

	var reqErr *apierr.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 0, reqErr.PageIndex)
	assert.Equal(t, 0, reqErr.StatusCode)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchAllPages_DecodeFailure(t *testing.T) {
	st := testsupport.NewScriptedTransport().
		Page(page1, `{"invoices":[]}`, "")

	_, err := FetchAllPages[item](context.Background(), st, page1, NewEnvelopeDecoder[item]("bills"), quiet())

	var decodeErr *apierr.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, page1, decodeErr.Endpoint)
	assert.Equal(t, http.StatusOK, decodeErr.StatusCode)
}

func TestFetchAllPages_HonoursCancelledContext(t *testing.T) {
	st := testsupport.NewScriptedTransport().Page(page1, `{"bills":[]}`, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchAllPages[item](ctx, st, page1, NewEnvelopeDecoder[item]("bills"), quiet())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, st.Calls())
}

func TestFetchAllPages_BodyNextField(t *testing.T) {
	st := testsupport.NewScriptedTransport().
		Page(page1, `{"bills":[{"url":"b1"}],"next":"`+page2+`"}`, "").
		Page(page2, `{"bills":[{"url":"b2"}],"next":null}`, "")

	dec := EnvelopeDecoder[item]{Key: "bills", NextField: "next"}
	items, err := FetchAll[item](context.Background(), st, page1, dec, quiet())

	require.NoError(t, err)
	assert.Len(t, items, 2)
}

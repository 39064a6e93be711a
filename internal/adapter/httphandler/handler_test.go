package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/catalogdata"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/prefs"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubmitter struct {
	fail atomic.Bool
}

func (s *stubSubmitter) SubmitOrder(context.Context, domain.Order) error {
	if s.fail.Load() {
		return errors.New("endpoint returned 500")
	}
	return nil
}

func (s *stubSubmitter) RequestProduct(context.Context, domain.ProductRequest) error {
	if s.fail.Load() {
		return errors.New("endpoint returned 500")
	}
	return nil
}

type fixture struct {
	t   *testing.T
	mux *http.ServeMux
	sub *stubSubmitter
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	sub := &stubSubmitter{}
	svc, err := service.New(
		catalogdata.MustDefault(), sub, prefs.NewMemoryStore(),
		service.TimingsOpt(time.Hour, 0),
	)
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	mux := http.NewServeMux()
	httphandler.Register(mux, svc)
	return fixture{t: t, mux: mux, sub: sub}
}

func (f fixture) do(method, path, sid, body string) *httptest.ResponseRecorder {
	f.t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		r.Header.Set(httphandler.SessionHeader, sid)
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

const validCustomer = `{
	"name": "أحمد",
	"email": "ahmed@example.com",
	"phone": "0555123456",
	"state": "سطيف",
	"address": "حي 8 ماي"
}`

func TestCatalogRoutes(t *testing.T) {
	f := newFixture(t)

	t.Run("External", func(t *testing.T) {
		w := f.do(http.MethodGet, "/v1/catalog/external", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		ps := decode[[]httphandler.Product](t, w)
		require.Len(t, ps, 10)
		assert.Equal(t, "1", ps[0].ID)
		assert.Equal(t, "external", ps[0].Kind)
		assert.Equal(t, "aliexpress", ps[0].Platform)
		assert.EqualValues(t, 4400, ps[0].Price.DZD)
		assert.Equal(t, "15", ps[0].Price.USD.String())
	})

	t.Run("LocalByCategory", func(t *testing.T) {
		w := f.do(http.MethodGet, "/v1/catalog/local?category=nonexistent", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Product", func(t *testing.T) {
		w := f.do(http.MethodGet, "/v1/catalog/products/local-1", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		p := decode[httphandler.Product](t, w)
		require.NotNil(t, p.Quantity)
		assert.Equal(t, 2, *p.Quantity)
		assert.Equal(t, "local", p.Platform)
		assert.NotNil(t, p.Savings)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		w := f.do(http.MethodGet, "/v1/catalog/products/missing", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BrowseSorted", func(t *testing.T) {
		w := f.do(http.MethodGet, "/v1/catalog/browse?origin=local&sort=price-low", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		ps := decode[[]httphandler.Product](t, w)
		require.Len(t, ps, 9)
		for i := 1; i < len(ps); i++ {
			assert.LessOrEqual(t, ps[i-1].Price.DZD, ps[i].Price.DZD)
		}
	})

	t.Run("BrowseInvalidSort", func(t *testing.T) {
		w := f.do(http.MethodGet, "/v1/catalog/browse?sort=cheapest", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("FeaturedAndCategories", func(t *testing.T) {
		w := f.do(http.MethodGet, "/v1/catalog/featured", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		fe := decode[httphandler.Featured](t, w)
		assert.LessOrEqual(t, len(fe.External), 4)

		w = f.do(http.MethodGet, "/v1/catalog/categories", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode[[]string](t, w))
	})

	t.Run("Suggestions", func(t *testing.T) {
		w := f.do(http.MethodGet, "/v1/catalog/suggestions?q=", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		s := decode[httphandler.Suggestions](t, w)
		assert.Empty(t, s.Terms)
	})
}

func TestSessionRequired(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/v1/cart", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWrongMediaType(t *testing.T) {
	f := newFixture(t)
	r := httptest.NewRequest(http.MethodPost, "/v1/cart/items",
		strings.NewReader(`{"productId":"1"}`))
	r.Header.Set("Content-Type", "text/plain")
	r.Header.Set(httphandler.SessionHeader, "s1")
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestCartRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/v1/cart/items", "s1", `{"productId":"1","quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodPost, "/v1/cart/items", "s1", `{"productId":"1","quantity":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	c := decode[httphandler.Cart](t, w)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, 5, c.ItemCount)
	assert.EqualValues(t, 5*4400, c.Total.DZD)

	t.Run("DefaultQuantity", func(t *testing.T) {
		w := f.do(http.MethodPost, "/v1/cart/items", "s2", `{"productId":"local-1"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, decode[httphandler.Cart](t, w).ItemCount)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		w := f.do(http.MethodPost, "/v1/cart/items", "s1", `{"productId":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		w := f.do(http.MethodPost, "/v1/cart/items", "s1", `{"productId":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UpdateToZeroRemoves", func(t *testing.T) {
		w := f.do(http.MethodPut, "/v1/cart/items/1", "s1", `{"quantity":0}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[httphandler.Cart](t, w).Items)
	})

	t.Run("Remove", func(t *testing.T) {
		w := f.do(http.MethodDelete, "/v1/cart/items/local-1", "s2", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[httphandler.Cart](t, w).Items)

		w = f.do(http.MethodGet, "/v1/state", "s2", "")
		st := decode[httphandler.State](t, w)
		assert.Equal(t, "info", st.Notification.Level)
	})
}

func TestCheckoutRoute(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		f := newFixture(t)
		f.do(http.MethodPost, "/v1/cart/items", "s1", `{"productId":"local-2","quantity":1}`)

		w := f.do(http.MethodPost, "/v1/checkout", "s1", validCustomer)
		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
		o := decode[httphandler.Order](t, w)
		assert.NotEmpty(t, o.OrderID)
		require.Len(t, o.Items, 1)

		w = f.do(http.MethodGet, "/v1/cart", "s1", "")
		assert.Empty(t, decode[httphandler.Cart](t, w).Items)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/v1/checkout", "s1", validCustomer)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("InvalidCustomer", func(t *testing.T) {
		f := newFixture(t)
		f.do(http.MethodPost, "/v1/cart/items", "s1", `{"productId":"1"}`)
		w := f.do(http.MethodPost, "/v1/checkout", "s1", `{"name":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("SubmissionFailed", func(t *testing.T) {
		f := newFixture(t)
		f.sub.fail.Store(true)
		f.do(http.MethodPost, "/v1/cart/items", "s1", `{"productId":"1"}`)

		w := f.do(http.MethodPost, "/v1/checkout", "s1", validCustomer)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.NotContains(t, w.Body.String(), "500")

		w = f.do(http.MethodGet, "/v1/cart", "s1", "")
		assert.Len(t, decode[httphandler.Cart](t, w).Items, 1)
	})
}

func TestProductRequestRoute(t *testing.T) {
	f := newFixture(t)

	body := `{"productName":"مكنسة روبوت","customer":` + validCustomer + `}`
	w := f.do(http.MethodPost, "/v1/product-requests", "s1", body)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[httphandler.ProductRequestAccepted](t, w).RequestID)

	w = f.do(http.MethodPost, "/v1/product-requests", "s1", `{"customer":`+validCustomer+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNavigationRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPut, "/v1/state/category", "s1", `{"category":"electronics"}`)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[httphandler.State](t, w)
	assert.Equal(t, "available", st.Tab)
	assert.Equal(t, "electronics", st.Category)

	w = f.do(http.MethodPut, "/v1/state/tab", "s1", `{"tab":"external"}`)
	require.Equal(t, http.StatusOK, w.Code)
	st = decode[httphandler.State](t, w)
	assert.Equal(t, "external", st.Tab)
	assert.Empty(t, st.Category)

	w = f.do(http.MethodPut, "/v1/state/tab", "s1", `{"tab":"cart"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/v1/state/home", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "home", decode[httphandler.State](t, w).Tab)

	w = f.do(http.MethodPost, "/v1/search", "s1", `{"query":"ساعة"}`)
	require.Equal(t, http.StatusOK, w.Code)
	st = decode[httphandler.State](t, w)
	assert.Equal(t, "ساعة", st.Query)
	assert.True(t, st.Notification.Visible)

	w = f.do(http.MethodDelete, "/v1/notification", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[httphandler.State](t, w).Notification.Visible)

	w = f.do(http.MethodGet, "/v1/searches/recent", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ساعة"}, decode[[]string](t, w))
}

func TestUpdatePromptRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/v1/update-prompt", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[httphandler.UpdatePrompt](t, w).Hidden)

	w = f.do(http.MethodPost, "/v1/update-prompt/hide", "s1", "")
	require.Equal(t, http.StatusOK, w.Code)
	up := decode[httphandler.UpdatePrompt](t, w)
	assert.True(t, up.Hidden)
	require.NotNil(t, up.Until)

	w = f.do(http.MethodGet, "/v1/update-prompt", "s1", "")
	assert.True(t, decode[httphandler.UpdatePrompt](t, w).Hidden)
}

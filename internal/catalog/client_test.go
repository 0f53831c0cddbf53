package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"name":"Tela iPhone 11","quantity":15,"price":450.0}]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, 15, products[0].Quantity)
	assert.Equal(t, 450.0, products[0].Price)
}

func TestListProducts_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestListProducts_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL, time.Second)
	_, err := client.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestDecrementStock_Success(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sales", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.DecrementStock(context.Background(), []domain.StockDecrement{
		{ProductID: 1, Quantity: 5},
		{ProductID: 4, Quantity: 2},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"product_id":1,"quantity":5},{"product_id":4,"quantity":2}]}`, string(gotBody))
}

func TestDecrementStock_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Insufficient stock for product Tela iPhone 11"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.DecrementStock(context.Background(), []domain.StockDecrement{{ProductID: 1, Quantity: 99}})

	var conflict *StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Insufficient stock for product Tela iPhone 11", conflict.Detail)
}

func TestDecrementStock_ConflictWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.DecrementStock(context.Background(), []domain.StockDecrement{{ProductID: 1, Quantity: 1}})

	var conflict *StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Detail, "502")
}

func TestCreateProduct_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products/", r.URL.Path)

		var req CreateProductRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(domain.Product{ID: 7, Name: req.Name, Quantity: req.Quantity, Price: req.Price})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	product, err := client.CreateProduct(context.Background(), CreateProductRequest{
		Name: "Bateria Samsung Galaxy S21", Quantity: 2, Price: 150, NCM: "8507.60.00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, "Bateria Samsung Galaxy S21", product.Name)
}

func TestCompanySettings_NotFoundYieldsDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	settings, err := client.CompanySettings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, settings.CNPJ)
	assert.Equal(t, 1, settings.RegimeTributario)
}

func TestSaveCompanySettings_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/settings/company", r.URL.Path)
		var settings domain.CompanySettings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&settings))
		settings.ID = 1
		json.NewEncoder(w).Encode(settings)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	saved, err := client.SaveCompanySettings(context.Background(), domain.CompanySettings{CNPJ: "00.000.000/0001-00"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, "00.000.000/0001-00", saved.CNPJ)
}

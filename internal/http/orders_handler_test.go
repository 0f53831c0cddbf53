package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fjod/repair_pos/internal/domain"
	"github.com/fjod/repair_pos/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrdersRouter(t *testing.T) (*chi.Mux, *orders.Book) {
	t.Helper()
	book := orders.New(context.Background(), docStoreStub{})
	handler := NewOrdersHandler(book)

	r := chi.NewRouter()
	r.Get("/orders", handler.List)
	r.Post("/orders", handler.Create)
	r.Put("/orders/{order_id}/status", handler.UpdateStatus)
	return r, book
}

func TestListOrders_ReturnsSeedData(t *testing.T) {
	router, _ := newOrdersRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/orders", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp OrdersResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Len(t, resp.Orders, 3)
	assert.Len(t, resp.Clients, 3)
	assert.Len(t, resp.Devices, 3)
}

func TestCreateOrder(t *testing.T) {
	router, book := newOrdersRouter(t)

	body := bytes.NewBufferString(`{"client_name":"Paulo Souza","device_model":"Moto G84","description":"Troca de bateria"}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/orders", body))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var order domain.ServiceOrder
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&order))
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.ID)
	assert.Len(t, book.Orders(), 4)
}

func TestCreateOrder_MissingFields(t *testing.T) {
	router, _ := newOrdersRouter(t)

	body := bytes.NewBufferString(`{"description":"sem cliente"}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("POST", "/orders", body))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	router, book := newOrdersRouter(t)
	orderID := book.Orders()[0].ID

	body := bytes.NewBufferString(`{"status":"completed"}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/orders/"+orderID+"/status", body))
	require.Equal(t, http.StatusOK, recorder.Code)

	var found bool
	for _, o := range book.Orders() {
		if o.ID == orderID {
			found = true
			assert.Equal(t, domain.OrderStatusCompleted, o.Status)
		}
	}
	require.True(t, found)
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	router, book := newOrdersRouter(t)
	orderID := book.Orders()[0].ID

	body := bytes.NewBufferString(`{"status":"shipped"}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/orders/"+orderID+"/status", body))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "invalid_status", decodeError(t, recorder).Code)
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	router, _ := newOrdersRouter(t)

	body := bytes.NewBufferString(`{"status":"completed"}`)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("PUT", "/orders/so-0/status", body))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

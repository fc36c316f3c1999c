package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayments_CreateSendsBodyAndUnwraps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))

		var body PaymentInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r1", body.RideID)
		assert.Equal(t, 12.50, body.Amount)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"payment":{"id":"p1","ride_id":"r1","amount":12.50,"status":"pending"}}`))
	}))
	defer server.Close()

	payments := NewPayments(newTestClient(server.URL, authedCreds()))
	payment, err := payments.Create(context.Background(), PaymentInput{RideID: "r1", Amount: 12.50})
	require.NoError(t, err)
	assert.Equal(t, "p1", payment.ID)
	assert.Equal(t, "pending", payment.Status)
}

func TestPayments_ListAcceptsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":"p1","ride_id":"r1","amount":5}]`))
	}))
	defer server.Close()

	payments := NewPayments(newTestClient(server.URL, authedCreds()))
	list, err := payments.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p1", list[0].ID)
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicles_CreateSendsBodyAndUnwraps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vehicles", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))

		var body VehicleInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "AB-123", body.Plate)
		assert.True(t, body.Wheelchair)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"vehicle":{"id":"v1","plate":"AB-123","wheelchair":true}}`))
	}))
	defer server.Close()

	vehicles := NewVehicles(newTestClient(server.URL, authedCreds()))
	vehicle, err := vehicles.Create(context.Background(), VehicleInput{Plate: "AB-123", Wheelchair: true})
	require.NoError(t, err)
	assert.Equal(t, "v1", vehicle.ID)
	assert.True(t, vehicle.Wheelchair)
}

func TestVehicles_ListAcceptsWrappedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vehicles", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"vehicles":[{"id":"v1","plate":"AB-123"},{"id":"v2","plate":"CD-456"}]}`))
	}))
	defer server.Close()

	vehicles := NewVehicles(newTestClient(server.URL, authedCreds()))
	list, err := vehicles.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CD-456", list[1].Plate)
}

func TestVehicles_UploadLicenseSendsMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vehicles/v1/license", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		file, header, err := r.FormFile("license")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "license.pdf", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "pdf-bytes", string(data))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"vehicle":{"id":"v1","plate":"AB-123","license_url":"/static/licenses/v1/license.pdf"}}`))
	}))
	defer server.Close()

	vehicles := NewVehicles(newTestClient(server.URL, authedCreds()))
	vehicle, err := vehicles.UploadLicense(context.Background(), "v1", "license.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/static/licenses/v1/license.pdf", vehicle.LicenseURL)
}

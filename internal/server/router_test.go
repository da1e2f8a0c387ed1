package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardquant-backend/internal/app"
	"cardquant-backend/internal/config"
	"cardquant-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:   "0123456789abcdef0123456789abcdef",
		CORSOrigins: "http://localhost:5173",
	}
	state := app.New(app.Options{Store: storage.NewMemoryStore()})
	require.NoError(t, state.Load(context.Background()))
	return New(cfg, state, zap.NewNop())
}

func doJSON(t *testing.T, a *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func login(t *testing.T, a *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, a, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	return res.Token
}

func bootstrapAdmin(t *testing.T, a *fiber.App) string {
	t.Helper()
	resp, body := doJSON(t, a, http.MethodPost, "/api/auth/register-admin", "", fiber.Map{
		"name": "Alice", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return login(t, a, "alice@example.com", "supersecret")
}

func TestAuthFlow(t *testing.T) {
	a := newTestApp(t)
	token := bootstrapAdmin(t, a)

	resp, _ := doJSON(t, a, http.MethodPost, "/api/auth/register-admin", "", fiber.Map{
		"name": "Eve", "email": "eve@example.com", "password": "supersecret",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "only one bootstrap admin")

	resp, _ = doJSON(t, a, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "alice@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := doJSON(t, a, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"role":"admin"`)
	assert.NotContains(t, string(body), "passwordHash")

	resp, _ = doJSON(t, a, http.MethodGet, "/api/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInventoryAndPermissions(t *testing.T) {
	a := newTestApp(t)
	adminToken := bootstrapAdmin(t, a)

	resp, body := doJSON(t, a, http.MethodPost, "/api/inventory", adminToken, fiber.Map{
		"name": "Prizm Box", "quantity": 4, "cost": "120.50", "category": "Boxes",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = doJSON(t, a, http.MethodPost, "/api/inventory", adminToken, fiber.Map{
		"name": "Free", "quantity": 1, "cost": "0",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = doJSON(t, a, http.MethodPost, "/api/users", adminToken, fiber.Map{
		"name": "Bob", "email": "bob@example.com", "password": "streamer-pass", "role": "streamer", "streamerId": "bob",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	streamerToken := login(t, a, "bob@example.com", "streamer-pass")

	// streamer envanteri görür ama maliyeti göremez
	resp, body = doJSON(t, a, http.MethodGet, "/api/inventory", streamerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Prizm Box")
	assert.NotContains(t, string(body), `"cost"`)

	resp, body = doJSON(t, a, http.MethodGet, "/api/inventory", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"cost":"120.5"`)

	resp, _ = doJSON(t, a, http.MethodPost, "/api/inventory", streamerToken, fiber.Map{"name": "x", "quantity": 1, "cost": "1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, a, http.MethodPost, "/api/checks", streamerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, a, http.MethodGet, "/api/users", streamerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, a, http.MethodGet, "/api/inventory-changes", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Added new item: Prizm Box")
}

func TestUploadCSV(t *testing.T) {
	a := newTestApp(t)
	token := bootstrapAdmin(t, a)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "stock.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,qty,price\nPrizm Box,4,120\nTopps Pack,20,5\nbroken,,\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var res struct {
		Added int `json:"added"`
	}
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, 2, res.Added)
}

func TestCheckFlowOverHTTP(t *testing.T) {
	a := newTestApp(t)
	token := bootstrapAdmin(t, a)

	resp, body := doJSON(t, a, http.MethodPost, "/api/inventory", token, fiber.Map{
		"name": "Alpha", "quantity": 10, "cost": "5", "category": "X",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &item))

	resp, body = doJSON(t, a, http.MethodPost, "/api/checks", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"value":"50"`)

	resp, body = doJSON(t, a, http.MethodPost, "/api/checks/current/finish", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = doJSON(t, a, http.MethodPut, "/api/checks/current/items/"+item.ID, token, fiber.Map{"actualQuantity": 8})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = doJSON(t, a, http.MethodPost, "/api/checks/current/finish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"state":"pending_review"`)

	resp, body = doJSON(t, a, http.MethodPost, "/api/checks/current/apply", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"difference":-2`)

	resp, body = doJSON(t, a, http.MethodGet, "/api/checks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"missingItems":1`)

	resp, body = doJSON(t, a, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"totalUnits":8`)
}

func TestStreamerSettlesOnlyUnderOwnID(t *testing.T) {
	a := newTestApp(t)
	adminToken := bootstrapAdmin(t, a)

	resp, body := doJSON(t, a, http.MethodPost, "/api/inventory", adminToken, fiber.Map{
		"name": "Prizm Box", "quantity": 5, "cost": "40", "category": "Boxes",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &item))

	for _, u := range []fiber.Map{
		{"name": "Bob", "email": "bob@example.com", "password": "streamer-pass", "role": "streamer", "streamerId": "bob"},
		{"name": "Carol", "email": "carol@example.com", "password": "streamer-pass", "role": "streamer", "streamerId": "carol"},
	} {
		resp, body = doJSON(t, a, http.MethodPost, "/api/users", adminToken, u)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}
	bobToken := login(t, a, "bob@example.com", "streamer-pass")
	carolToken := login(t, a, "carol@example.com", "streamer-pass")

	resp, body = doJSON(t, a, http.MethodPost, "/api/streams", bobToken, fiber.Map{
		"date": "2025-12-09", "startTime": "19:00", "endTime": "21:00", "sorter": "Dan",
		"platform": "tiktok", "totalSales": "200",
		"streamer": "Carol", "streamerId": "carol",
		"soldItems": []fiber.Map{{"id": item.ID, "name": "Anything", "cost": "0", "quantitySold": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var settled struct {
		Stream struct {
			Streamer   string `json:"streamer"`
			StreamerID string `json:"streamerId"`
			SoldItems  []struct {
				Name string `json:"name"`
				Cost string `json:"cost"`
			} `json:"soldItems"`
		} `json:"stream"`
	}
	require.NoError(t, json.Unmarshal(body, &settled))
	assert.Equal(t, "bob", settled.Stream.StreamerID)
	assert.Equal(t, "Bob", settled.Stream.Streamer)
	require.Len(t, settled.Stream.SoldItems, 1)
	assert.Equal(t, "Prizm Box", settled.Stream.SoldItems[0].Name)
	assert.Equal(t, "40", settled.Stream.SoldItems[0].Cost)

	resp, body = doJSON(t, a, http.MethodGet, "/api/streams/mine", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"totalCost":"80"`)

	resp, body = doJSON(t, a, http.MethodGet, "/api/streams/mine", carolToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"streams":[]`)
}

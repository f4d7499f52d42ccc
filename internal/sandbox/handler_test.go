package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usermanager/internal/shared/config"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo())
	_, err := svc.Seed(context.Background())
	require.NoError(t, err)
	return NewRouter(config.Defaults(), svc), svc
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListReturnsRemoteShape(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doJSON(t, r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var users []userBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&users))
	require.Len(t, users, 10)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, "Leanne Graham", users[0].Name)
	require.NotNil(t, users[0].Company)
	assert.Equal(t, "Romaguera-Crona", users[0].Company.Name)
}

func TestCreateAcceptsFormShapedBody(t *testing.T) {
	r, svc := newTestRouter(t)

	resp := doJSON(t, r, http.MethodPost, "/users", map[string]string{
		"firstName":  "Ada",
		"lastName":   "Lovelace",
		"email":      "ada@x.com",
		"department": "R&D",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created userBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, "Ada Lovelace", created.Name)
	require.NotNil(t, created.Company)
	assert.Equal(t, "R&D", created.Company.Name)

	stored, err := svc.Get(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", stored.Email)
}

func TestUpdateAndDelete(t *testing.T) {
	r, svc := newTestRouter(t)

	resp := doJSON(t, r, http.MethodPut, "/users/2", map[string]any{
		"name":    "Ervin Howell",
		"email":   "ervin@x.com",
		"company": map[string]string{"name": "Globex"},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	rec, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Globex", rec.CompanyName)

	resp = doJSON(t, r, http.MethodDelete, "/users/2", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	_, err = svc.Get(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestErrorsUseEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{name: "unknown id", method: http.MethodDelete, path: "/users/404", status: http.StatusNotFound, code: "not_found"},
		{name: "bad id", method: http.MethodGet, path: "/users/abc", status: http.StatusBadRequest, code: "invalid_id"},
		{name: "missing email", method: http.MethodPost, path: "/users", body: map[string]string{"name": "A B"}, status: http.StatusUnprocessableEntity, code: "invalid_user"},
		{name: "update unknown", method: http.MethodPut, path: "/users/77", body: map[string]string{"name": "A B", "email": "a@b.c"}, status: http.StatusNotFound, code: "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, r, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, resp.Code)
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
			assert.Equal(t, tc.code, payload.Error.Code)
		})
	}
}

func TestRateLimitedSandbox(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Defaults()
	cfg.SandboxRateLimit = 0.5
	r := NewRouter(cfg, NewService(NewMemoryRepo()))

	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/users", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doJSON(t, r, http.MethodGet, "/users", nil).Code)
	// Health is registered before the limiter and stays reachable.
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/api/v1/health", nil).Code)
}

func TestFormShapedUpdateKeepsUnsentFields(t *testing.T) {
	r, svc := newTestRouter(t)

	resp := doJSON(t, r, http.MethodPut, "/users/1", map[string]string{
		"firstName":  "Mary Ann",
		"lastName":   "Smith",
		"email":      "mary@x.com",
		"department": "Globex",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var echoed userBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echoed))
	assert.Equal(t, "Mary Ann", echoed.FirstName)
	assert.Equal(t, "Smith", echoed.LastName)

	rec, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mary Ann Smith", rec.Name)
	assert.Equal(t, "Bret", rec.Username)
	assert.Equal(t, "1-770-736-8031 x56442", rec.Phone)
	assert.Equal(t, "hildegard.org", rec.Website)
	assert.Equal(t, "Globex", rec.CompanyName)

	// A later list still carries the submitted split.
	resp = doJSON(t, r, http.MethodGet, "/users", nil)
	var list []userBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, "Mary Ann", list[0].FirstName)
	assert.Equal(t, "Smith", list[0].LastName)
}

func TestRenameDropsStaleNameSplit(t *testing.T) {
	r, svc := newTestRouter(t)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/users/2", map[string]string{
		"firstName": "Ervin Lee", "lastName": "Howell", "email": "e@x.com", "department": "Deckow-Crist",
	}).Code)
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, "/users/2", map[string]any{
		"name": "Ervin Howell-Smith", "email": "e@x.com",
	}).Code)

	rec, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Ervin Howell-Smith", rec.Name)
	assert.Empty(t, rec.FirstName)
	assert.Empty(t, rec.LastName)
	assert.Equal(t, "Deckow-Crist", rec.CompanyName)
}

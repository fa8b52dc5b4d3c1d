package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ipfolio/internal/models"
	"ipfolio/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("org_id", "org-1")
	return c, rec
}

func setupStores(t *testing.T) {
	t.Helper()
	Init(store.NewSessions(nil), store.NewAdmin(), nil)
}

func TestCreateClient(t *testing.T) {
	setupStores(t)

	c, rec := newContext(t, http.MethodPost, "/clients", `{"name":"Acme Legal","email":"ip@acme.test"}`)
	require.NoError(t, CreateClient(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var client models.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &client))
	assert.NotEmpty(t, client.ID)
	assert.Equal(t, "Acme Legal", client.Name)
}

func TestCreateClientRequiresName(t *testing.T) {
	setupStores(t)

	c, rec := newContext(t, http.MethodPost, "/clients", `{"email":"ip@acme.test"}`)
	require.NoError(t, CreateClient(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAssetRejectsMalformedDate(t *testing.T) {
	setupStores(t)

	c, rec := newContext(t, http.MethodPost, "/assets",
		`{"name":"Mark","type":"trademark","expiry_date":"not-a-date"}`)
	require.NoError(t, CreateAsset(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAssetAcceptsDateOnly(t *testing.T) {
	setupStores(t)

	c, rec := newContext(t, http.MethodPost, "/assets",
		`{"name":"Mark","type":"trademark","expiry_date":"2027-03-15"}`)
	require.NoError(t, CreateAsset(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var asset models.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	require.NotNil(t, asset.ExpiryDate)
	assert.Equal(t, "2027-03-15", asset.ExpiryDate.Format("2006-01-02"))
}

func TestCreateAssetRejectsUnknownType(t *testing.T) {
	setupStores(t)

	c, rec := newContext(t, http.MethodPost, "/assets", `{"name":"Mark","type":"recipe"}`)
	require.NoError(t, CreateAsset(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteClientBlockedByAssets(t *testing.T) {
	setupStores(t)

	client := sessions.ForOrg("org-1").CreateClient(models.Client{Name: "Acme"})
	sessions.ForOrg("org-1").CreateAsset(models.Asset{
		Name: "Mark", Type: models.AssetTrademark, ClientID: client.ID,
	})

	c, rec := newContext(t, http.MethodDelete, "/clients/"+client.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(client.ID)
	require.NoError(t, DeleteClient(c))
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "assets", body["kind"])
	assert.Equal(t, float64(1), body["blocking_count"])
}

func TestDeleteMissingTask(t *testing.T) {
	setupStores(t)

	c, rec := newContext(t, http.MethodDelete, "/tasks/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	require.NoError(t, DeleteTask(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

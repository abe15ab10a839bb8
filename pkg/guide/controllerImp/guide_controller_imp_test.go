package controllerImp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantcare/pkg/guide/repositoryImp"
	"plantcare/pkg/guide/serviceImp"
	"plantcare/pkg/testutil"
)

func newCtrl(t *testing.T) *GuideCtrl {
	svc := serviceImp.New(repositoryImp.New(testutil.OpenDB(t)), nil)
	return New(svc, []string{"Extension.example.edu"}, 0)
}

func post(body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func get(target string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(httptest.NewRequest(http.MethodGet, target, nil), rec), rec
}

func TestPageTextDropsChrome(t *testing.T) {
	html := `<html><head><title>Pothos</title><style>p{}</style></head><body>
<nav><p>menu</p></nav>
<article><h1>Pothos   care</h1><p>Water when the top inch is dry.</p><ul><li>Trim leggy vines</li></ul>
<aside><p>Buy now</p></aside></article>
<footer><p>copyright</p></footer>
</body></html>`
	text, title, err := pageText([]byte(html))
	require.NoError(t, err)
	assert.Equal(t, "Pothos", title)
	assert.Equal(t, "Pothos care\nWater when the top inch is dry.\nTrim leggy vines", text)
}

func TestPageTextTitleFromHeading(t *testing.T) {
	text, title, err := pageText([]byte(`<body><h1>Snake plant</h1><p>Low light is fine.</p></body>`))
	require.NoError(t, err)
	assert.Equal(t, "Snake plant", title)
	assert.Equal(t, "Snake plant\nLow light is fine.", text)
}

func TestIngestURL(t *testing.T) {
	h := newCtrl(t)

	c, rec := post(`{"url":"https://random.example.com/page"}`)
	require.NoError(t, h.IngestURL(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = post(`{"url":"ftp://extension.example.edu/x"}`)
	require.NoError(t, h.IngestURL(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var fetched string
	h.fetch = func(_ context.Context, u string, _ int) (string, string, error) {
		fetched = u
		return "Snake plants tolerate low light.", "Snake plant", nil
	}
	c, rec = post(`{"url":"https://extension.example.edu/snake","species":"Sansevieria"}`)
	require.NoError(t, h.IngestURL(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://extension.example.edu/snake", fetched)
	assert.Contains(t, rec.Body.String(), `"title":"Snake plant"`)
	assert.Contains(t, rec.Body.String(), `"species":"sansevieria"`)
	assert.Contains(t, rec.Body.String(), `"chunks":1`)

	h.fetch = func(context.Context, string, int) (string, string, error) { return "", "", errors.New("boom") }
	c, rec = post(`{"url":"https://extension.example.edu/x"}`)
	require.NoError(t, h.IngestURL(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestIngestTextThenSearch(t *testing.T) {
	h := newCtrl(t)
	c, rec := post(`{"title":"Orchids","species":"phalaenopsis","text":"Orchids grow in bark, not soil."}`)
	require.NoError(t, h.IngestText(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = get("/?q=orchid+bark&species=Phalaenopsis")
	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Orchids"`)
	assert.Contains(t, rec.Body.String(), `"score":1.25`)

	c, rec = get("/?q=")
	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = get("/?q=bark&k=50")
	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = post(`{"title":"","text":"x"}`)
	require.NoError(t, h.IngestText(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package controllerImp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"

	"plantcare/pkg/apperr"
	"plantcare/pkg/guide/service"
)

type fetchFunc func(ctx context.Context, u string, maxBytes int) (text, title string, err error)

type GuideCtrl struct {
	s        service.GuideService
	allow    map[string]bool
	maxBytes int
	fetch    fetchFunc
}

func New(s service.GuideService, allowedDomains []string, maxBytes int) *GuideCtrl {
	allow := make(map[string]bool, len(allowedDomains))
	for _, d := range allowedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			allow[d] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return &GuideCtrl{s: s, allow: allow, maxBytes: maxBytes, fetch: fetchPage}
}

type textReq struct {
	Title     string `json:"title"`
	Species   string `json:"species"`
	Tags      string `json:"tags"`
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
}

func (h *GuideCtrl) IngestText(c echo.Context) error {
	var req textReq
	if err := c.Bind(&req); err != nil {
		return apperr.JSON(c, apperr.Validationf("invalid json"))
	}
	doc, err := h.s.Ingest(c.Request().Context(), service.NewGuide(req))
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

type urlReq struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Species string `json:"species"`
	Tags    string `json:"tags"`
}

func (h *GuideCtrl) IngestURL(c echo.Context) error {
	var req urlReq
	if err := c.Bind(&req); err != nil {
		return apperr.JSON(c, apperr.Validationf("invalid json"))
	}
	u, err := url.Parse(strings.TrimSpace(req.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.JSON(c, apperr.Validationf("url must be an absolute http(s) url"))
	}
	if !h.allow[strings.ToLower(u.Hostname())] {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "domain not allowed: " + u.Hostname()})
	}

	text, title, err := h.fetch(c.Request().Context(), u.String(), h.maxBytes)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "fetch: " + err.Error()})
	}
	if strings.TrimSpace(req.Title) != "" {
		title = req.Title
	}
	doc, err := h.s.Ingest(c.Request().Context(), service.NewGuide{
		Title: title, Species: req.Species, Tags: req.Tags, Text: text, SourceURL: u.String(),
	})
	if err != nil {
		return apperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

type hitView struct {
	DocumentID uint    `json:"document_id"`
	Title      string  `json:"title"`
	Species    string  `json:"species,omitempty"`
	SourceURL  string  `json:"source_url,omitempty"`
	Ord        int     `json:"ord"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

// Search: GET /guides/search?q=...&species=...&k=...
func (h *GuideCtrl) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return apperr.JSON(c, apperr.Validationf("q is required"))
	}
	k := 6
	if raw := c.QueryParam("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 20 {
			return apperr.JSON(c, apperr.Validationf("k must be between 1 and 20"))
		}
		k = n
	}
	hits, err := h.s.Search(c.Request().Context(), q, c.QueryParam("species"), k)
	if err != nil {
		return apperr.JSON(c, err)
	}
	out := make([]hitView, 0, len(hits))
	for _, hit := range hits {
		d := hit.Chunk.Document
		out = append(out, hitView{
			DocumentID: hit.Chunk.DocumentID, Title: d.Title, Species: d.Species, SourceURL: d.SourceURL,
			Ord: hit.Chunk.Ord, Text: hit.Chunk.Text, Score: hit.Score,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func fetchPage(ctx context.Context, u string, maxBytes int) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)+1))
	if err != nil {
		return "", "", err
	}
	if len(body) > maxBytes {
		return "", "", fmt.Errorf("page exceeds %d bytes", maxBytes)
	}

	mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mt {
	case "text/html", "application/xhtml+xml":
		return pageText(body)
	case "text/plain":
		text := string(body)
		title, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
		return text, title, nil
	default:
		return "", "", fmt.Errorf("unsupported content type %q", mt)
	}
}

// pageText drops page chrome and keeps headings, paragraphs and list items
// of the main content, one block per line.
func pageText(html []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", "", err
	}
	title := strings.TrimSpace(doc.Find("head title").First().Text())
	doc.Find("script, style, nav, header, footer, aside, form").Remove()

	root := doc.Find("article, main, [role=main]").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}
	var lines []string
	root.Find("h1, h2, h3, h4, p, li, td").Each(func(_ int, s *goquery.Selection) {
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			lines = append(lines, t)
		}
	})
	if title == "" {
		title = strings.TrimSpace(root.Find("h1").First().Text())
	}
	return strings.Join(lines, "\n"), title, nil
}

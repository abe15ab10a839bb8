package serviceImp

import (
	"context"
	"log"
	"sort"
	"strings"
	"unicode"

	"plantcare/entities"
	"plantcare/pkg/apperr"
	"plantcare/pkg/guide/embedder"
	"plantcare/pkg/guide/repository"
	"plantcare/pkg/guide/service"
)

const (
	chunkRunes   = 1000
	speciesBoost = 0.25
)

type Svc struct {
	r   repository.GuideRepository
	emb *embedder.Embedder
}

func New(r repository.GuideRepository, emb *embedder.Embedder) *Svc { return &Svc{r: r, emb: emb} }

// split cuts text into paragraphs and packs them into chunks of about
// limit runes. A single paragraph longer than limit stays whole.
func split(text string, limit int) []string {
	var out []string
	var cur []string
	size := 0
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur, size = nil, 0
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := len([]rune(line))
		if size > 0 && size+n > limit {
			flush()
		}
		cur = append(cur, line)
		size += n
	}
	flush()
	return out
}

func (s *Svc) Ingest(ctx context.Context, in service.NewGuide) (*entities.GuideDocument, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperr.Validationf("title is required")
	}
	parts := split(in.Text, chunkRunes)
	if len(parts) == 0 {
		return nil, apperr.Validationf("text is required")
	}

	var vecs [][]float32
	if s.emb != nil {
		v, err := s.emb.Embed(ctx, parts)
		if err != nil {
			log.Printf("[guide] embed %q: %v", in.Title, err)
		} else {
			vecs = v
		}
	}

	chunks := make([]entities.GuideChunk, len(parts))
	for i, p := range parts {
		chunks[i] = entities.GuideChunk{Ord: i, Text: p}
		if vecs != nil {
			chunks[i].Embedding = embedder.Encode(vecs[i])
		}
	}
	doc := &entities.GuideDocument{
		Title:     in.Title,
		Species:   strings.ToLower(strings.TrimSpace(in.Species)),
		Tags:      strings.TrimSpace(in.Tags),
		SourceURL: strings.TrimSpace(in.SourceURL),
	}
	if err := s.r.Save(ctx, doc, chunks); err != nil {
		return nil, err
	}
	return doc, nil
}

func words(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) < 3 || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// keywordScore is the share of query words found in text.
func keywordScore(ws []string, text string) float64 {
	if len(ws) == 0 {
		return 0
	}
	low := strings.ToLower(text)
	hits := 0
	for _, w := range ws {
		if strings.Contains(low, w) {
			hits++
		}
	}
	return float64(hits) / float64(len(ws))
}

func matchesSpecies(doc entities.GuideDocument, species string) bool {
	return doc.Species != "" && species != "" && strings.Contains(species, doc.Species)
}

func (s *Svc) Search(ctx context.Context, query, species string, k int) ([]service.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" || k <= 0 {
		return nil, nil
	}
	species = strings.ToLower(strings.TrimSpace(species))

	chunks, err := s.r.Chunks(ctx)
	if err != nil || len(chunks) == 0 {
		return nil, err
	}

	var qv []float32
	if s.emb != nil {
		if v, err := s.emb.Embed(ctx, []string{query}); err == nil {
			qv = v[0]
		} else {
			log.Printf("[guide] embed query: %v", err)
		}
	}
	ws := words(query)

	var hits []service.Hit
	for _, ch := range chunks {
		var sc float64
		if qv != nil && len(ch.Embedding) > 0 {
			sc = embedder.Cosine(qv, embedder.Decode(ch.Embedding))
		} else {
			sc = keywordScore(ws, ch.Text)
		}
		if sc <= 0 {
			continue
		}
		if matchesSpecies(ch.Document, species) {
			sc += speciesBoost
		}
		hits = append(hits, service.Hit{Chunk: ch, Score: sc})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// ForSpecies never fails; guide context is optional for plan generation.
func (s *Svc) ForSpecies(ctx context.Context, species string, maxChars int) string {
	hits, err := s.Search(ctx, species+" care", species, 4)
	if err != nil {
		log.Printf("[guide] search %q: %v", species, err)
		return ""
	}
	var b strings.Builder
	for _, h := range hits {
		if b.Len() >= maxChars {
			break
		}
		b.WriteString("## " + h.Chunk.Document.Title + "\n")
		b.WriteString(h.Chunk.Text + "\n\n")
	}
	out := strings.TrimSpace(b.String())
	if r := []rune(out); len(r) > maxChars {
		out = string(r[:maxChars])
	}
	return out
}

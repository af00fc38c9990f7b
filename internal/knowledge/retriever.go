package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Vovarama1992/sales-bot/internal/ai"
	"github.com/Vovarama1992/sales-bot/internal/dialog"
)

const (
	fragmentPrefix = "chunk:"

	defaultTopK     = 3
	defaultMinScore = 0.2
)

type indexed struct {
	doc    Document
	vector []float32
}

// Retriever — векторный поиск по корпусу. Индекс строится лениво при первом запросе.
type Retriever struct {
	embedder ai.Embedder
	docs     []Document
	log      *zap.Logger

	mu    sync.RWMutex
	index []indexed
	build singleflight.Group
}

func NewRetriever(embedder ai.Embedder, docs []Document, log *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		docs:     docs,
		log:      log.Named("rag"),
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, opts dialog.RetrieveOptions) (dialog.RetrieveResult, error) {
	if query == "" {
		return dialog.RetrieveResult{}, nil
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	if opts.MinScore <= 0 {
		opts.MinScore = defaultMinScore
	}

	var (
		queryVec []float32
		index    []indexed
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := r.embedder.Embed(gctx, query)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		queryVec = v
		return nil
	})
	g.Go(func() error {
		idx, err := r.getIndex(gctx)
		index = idx
		return err
	})
	if err := g.Wait(); err != nil {
		return dialog.RetrieveResult{}, err
	}

	scored := make([]dialog.Fragment, 0, len(index))
	for _, it := range index {
		scored = append(scored, dialog.Fragment{
			ID:    fragmentPrefix + it.doc.ID,
			Title: it.doc.Title,
			Text:  it.doc.Text,
			Score: cosine(queryVec, it.vector),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > opts.TopK {
		scored = scored[:opts.TopK]
	}

	chunks := make([]dialog.Fragment, 0, len(scored))
	for _, f := range scored {
		if f.Score >= opts.MinScore {
			chunks = append(chunks, f)
		}
	}

	return dialog.RetrieveResult{Query: query, Chunks: chunks, Scored: scored}, nil
}

// getIndex: параллельные первые запросы делят одну сборку, неудачная сборка повторяется.
func (r *Retriever) getIndex(ctx context.Context) ([]indexed, error) {
	r.mu.RLock()
	idx := r.index
	r.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	v, err, _ := r.build.Do("index", func() (any, error) {
		r.mu.RLock()
		ready := r.index
		r.mu.RUnlock()
		if ready != nil {
			return ready, nil
		}

		built, err := r.buildIndex(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.index = built
		r.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]indexed), nil
}

func (r *Retriever) buildIndex(ctx context.Context) ([]indexed, error) {
	out := make([]indexed, 0, len(r.docs))
	for _, d := range r.docs {
		vec, err := r.embedder.Embed(ctx, d.Text)
		if err != nil {
			return nil, fmt.Errorf("embed document %s: %w", d.ID, err)
		}
		out = append(out, indexed{doc: d, vector: vec})
	}
	r.log.Info("knowledge index built", zap.Int("documents", len(out)))
	return out, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

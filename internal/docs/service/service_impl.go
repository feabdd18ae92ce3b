package service

import (
	"context"
	"fmt"
	"sync"

	docsdomain "github.com/smallbiznis/tariffdesk/internal/docs/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// minCandidateLines is how many title-like lines a chat message needs before
// it is treated as a docs list.
const minCandidateLines = 3

type Params struct {
	fx.In

	Store docsdomain.DocumentStore
	Log   *zap.Logger
}

// Service merges titles into the backing store. Upserts are serialized in
// process; across processes the last write wins.
type Service struct {
	store docsdomain.DocumentStore
	log   *zap.Logger
	mu    sync.Mutex
}

func NewService(p Params) docsdomain.Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: p.Store,
		log:   log.Named("docs.service"),
	}
}

func (s *Service) ReadAll(ctx context.Context) ([]docsdomain.DocEntry, error) {
	docs, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read docs: %w", err)
	}
	return docs, nil
}

func (s *Service) UpsertFromTitles(ctx context.Context, titles []string) (docsdomain.UpsertResult, error) {
	empty := docsdomain.UpsertResult{Added: []docsdomain.DocEntry{}, Updated: []docsdomain.DocEntry{}}
	if len(titles) == 0 || !s.store.Writable() {
		return empty, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.Load(ctx)
	if err != nil {
		return empty, fmt.Errorf("load docs: %w", err)
	}
	urls := make(map[string]string, len(existing))
	for _, doc := range existing {
		urls[doc.ID] = doc.URL
	}

	incoming := make([]docsdomain.DocEntry, 0, len(titles))
	for _, title := range titles {
		id := Slugify(title)
		incoming = append(incoming, docsdomain.DocEntry{
			ID:    id,
			Title: NormalizeWhitespace(title),
			URL:   urls[id],
			Tags:  TitleTags(title),
		})
	}

	merged, result := Merge(existing, incoming)
	if !result.Changed() {
		return result, nil
	}
	if err := s.store.Save(ctx, merged); err != nil {
		return empty, fmt.Errorf("save docs: %w", err)
	}

	s.log.Info("docs registry updated",
		zap.Int("added", len(result.Added)),
		zap.Int("updated", len(result.Updated)),
	)
	return result, nil
}

func (s *Service) ExtractAndStore(ctx context.Context, message string) (docsdomain.UpsertResult, error) {
	candidates := ExtractLineCandidates(message)
	if len(candidates) < minCandidateLines {
		return docsdomain.UpsertResult{Added: []docsdomain.DocEntry{}, Updated: []docsdomain.DocEntry{}}, nil
	}
	return s.UpsertFromTitles(ctx, candidates)
}

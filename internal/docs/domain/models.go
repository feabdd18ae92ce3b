// Package domain holds the document registry entry and its collaborators.
package domain

import (
	"context"
	"slices"
)

// DocEntry is a titled link addressable by a transliterated slug.
type DocEntry struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Tags  []string `json:"tags,omitempty"`
}

// Equal reports whether two entries carry the same content.
func (d DocEntry) Equal(other DocEntry) bool {
	return d.ID == other.ID &&
		d.Title == other.Title &&
		d.URL == other.URL &&
		slices.Equal(d.Tags, other.Tags)
}

// UpsertResult lists the entries created and changed by an upsert.
type UpsertResult struct {
	Added   []DocEntry `json:"added"`
	Updated []DocEntry `json:"updated"`
}

// Changed reports whether anything was added or updated.
func (r UpsertResult) Changed() bool {
	return len(r.Added)+len(r.Updated) > 0
}

// DocumentStore persists the full registry. Implementations treat the list as
// a single document: Save replaces whatever was stored before.
//
// A store that is not Writable silently drops Save calls and keeps serving
// the last known content.
type DocumentStore interface {
	Load(ctx context.Context) ([]DocEntry, error)
	Save(ctx context.Context, docs []DocEntry) error
	Writable() bool
}

// Service is the registry used by the HTTP layer and the chat dispatcher.
type Service interface {
	ReadAll(ctx context.Context) ([]DocEntry, error)
	UpsertFromTitles(ctx context.Context, titles []string) (UpsertResult, error)
	ExtractAndStore(ctx context.Context, message string) (UpsertResult, error)
}

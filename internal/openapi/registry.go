package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Lixing-Zhang/api-versioning/internal/versioning"
	"github.com/go-chi/chi/v5"
)

// DocumentEntry points at the document of one version.
type DocumentEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Registry holds the rendered document of every served version.
type Registry struct {
	docs    map[string][]byte
	entries []DocumentEntry
}

// NewRegistry builds and renders a document for each version, in order.
func NewRegistry(ctx context.Context, versions []versioning.Version, opts Options) (*Registry, error) {
	reg := &Registry{docs: make(map[string][]byte, len(versions))}

	for _, v := range versions {
		doc, err := Build(ctx, v, opts)
		if err != nil {
			return nil, err
		}

		body, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("openapi: marshal version %s: %w", v, err)
		}

		name := v.String()
		reg.docs[name] = body
		reg.entries = append(reg.entries, DocumentEntry{
			Name: name,
			URL:  fmt.Sprintf("/swagger/%s/swagger.json", name),
		})
	}

	return reg, nil
}

// Entries lists the registered documents.
func (reg *Registry) Entries() []DocumentEntry {
	return append([]DocumentEntry(nil), reg.entries...)
}

// ServeDocument handles GET /swagger/{version}/swagger.json
func (reg *Registry) ServeDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "version")
	if v, err := versioning.Parse(name); err == nil {
		name = v.String()
	}

	body, ok := reg.docs[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ServeIndex handles GET /swagger
func (reg *Registry) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(reg.entries)
}

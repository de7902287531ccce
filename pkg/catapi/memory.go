package catapi

import (
	"context"
	"net/http"
	"net/url"
)

// MemoryStore manages the Cat's vector memory collections and working memory.
type MemoryStore struct {
	client *Client
}

// GetAll lists the memory collections.
func (m MemoryStore) GetAll(ctx context.Context) (*Response, error) {
	return m.client.do(ctx, http.MethodGet, "/memory/collections/", nil, nil)
}

// WipeCollections deletes every collection. It cannot be undone.
func (m MemoryStore) WipeCollections(ctx context.Context) (*Response, error) {
	return m.client.do(ctx, http.MethodDelete, "/memory/wipe-collections/", nil, nil)
}

// WipeSingleCollection deletes the named collection. What happens for an
// unknown name is up to the Cat.
func (m MemoryStore) WipeSingleCollection(ctx context.Context, collection string) (*Response, error) {
	return m.client.do(ctx, http.MethodDelete, "/memory/collections/"+segment(collection), nil, nil)
}

// WipeCurrentConversation clears the conversation history of the working
// memory.
func (m MemoryStore) WipeCurrentConversation(ctx context.Context) (*Response, error) {
	return m.client.do(ctx, http.MethodDelete, "/memory/working-memory/conversation-history/", nil, nil)
}

// RecallMemory queries the memories. Every key in params is sent as a query
// parameter as-is.
func (m MemoryStore) RecallMemory(ctx context.Context, params url.Values) (*Response, error) {
	return m.client.do(ctx, http.MethodGet, "/memory/recall/", params, nil)
}

// Collections fetches the collection list as typed values.
func (m MemoryStore) Collections(ctx context.Context) ([]Collection, error) {
	resp, err := m.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var out CollectionsResponse
	if err := resp.DecodeInto(&out); err != nil {
		return nil, err
	}
	return out.Collections, nil
}

// Recall runs RecallMemory and maps the reply onto a RecallResponse.
func (m MemoryStore) Recall(ctx context.Context, params url.Values) (*RecallResponse, error) {
	resp, err := m.RecallMemory(ctx, params)
	if err != nil {
		return nil, err
	}

	var out RecallResponse
	if err := resp.DecodeInto(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

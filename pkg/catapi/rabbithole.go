package catapi

import (
	"context"
	"net/http"
)

// IngestionGateway feeds content into the Cat's memory (the rabbit hole).
// Ingestion runs on the Cat; these calls only hand the content over.
type IngestionGateway struct {
	client *Client
}

// SendFile uploads a document to be chunked and stored in declarative memory.
func (g IngestionGateway) SendFile(ctx context.Context, file File) (*Response, error) {
	return g.client.do(ctx, http.MethodPost, "/rabbithole/", nil, multipartBody{file: file})
}

// SendMemory uploads a memory export to be restored.
func (g IngestionGateway) SendMemory(ctx context.Context, file File) (*Response, error) {
	return g.client.do(ctx, http.MethodPost, "/rabbithole/memory/", nil, multipartBody{file: file})
}

// SendWeb asks the Cat to fetch and ingest the page at url.
func (g IngestionGateway) SendWeb(ctx context.Context, url string) (*Response, error) {
	return g.client.do(ctx, http.MethodPost, "/rabbithole/web/", nil, jsonBody{value: webRequest{URL: url}})
}

type webRequest struct {
	URL string `json:"url"`
}

package catapi

import (
	"context"
	"fmt"
	"net/http"
)

// ===================================================================
// Embedder and LLM settings
// ===================================================================
// Both groups share the same shape under different prefixes.

// SettingsGroup manages one model category (embedder or LLM) on the Cat.
type SettingsGroup struct {
	client *Client
	prefix string
}

// GetAll lists every configuration descriptor of the category along with the
// selected one.
func (g SettingsGroup) GetAll(ctx context.Context) (*Response, error) {
	return g.client.do(ctx, http.MethodGet, g.prefix, nil, nil)
}

// UpdateSettings stores settings for the configuration called name and makes
// it the selected one. settings is forwarded verbatim as the JSON body; name is
// not checked locally.
func (g SettingsGroup) UpdateSettings(ctx context.Context, name string, settings any) (*Response, error) {
	return g.client.do(ctx, http.MethodPut, g.prefix+segment(name), nil, jsonBody{value: settings})
}

// Descriptor fetches the category and maps it onto a SettingsDescriptor.
func (g SettingsGroup) Descriptor(ctx context.Context) (*SettingsDescriptor, error) {
	resp, err := g.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var d SettingsDescriptor
	if err := resp.DecodeInto(&d); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &d, nil
}

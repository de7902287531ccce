package catapi

import (
	"context"
	"net/http"
)

// PluginRegistry manages installed plugins.
type PluginRegistry struct {
	client *Client
}

// GetAll lists installed plugins and those available in the registry.
func (p PluginRegistry) GetAll(ctx context.Context) (*Response, error) {
	return p.client.do(ctx, http.MethodGet, "/plugins/", nil, nil)
}

// Toggle flips the enabled state of plugin id.
func (p PluginRegistry) Toggle(ctx context.Context, id string) (*Response, error) {
	return p.client.do(ctx, http.MethodPut, "/plugins/toggle/"+segment(id), nil, nil)
}

// Upload installs a plugin from a zip archive.
func (p PluginRegistry) Upload(ctx context.Context, file File) (*Response, error) {
	return p.client.do(ctx, http.MethodPost, "/plugins/install/", nil, multipartBody{file: file})
}

// List fetches the plugin list as typed values.
func (p PluginRegistry) List(ctx context.Context) (*PluginsResponse, error) {
	resp, err := p.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var out PluginsResponse
	if err := resp.DecodeInto(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

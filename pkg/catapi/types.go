package catapi

// Typed views of the Cat's responses, for callers that want more than the raw
// body. The client itself never decodes responses on the request path.

// SettingsDescriptor is the reply of the settings list endpoints.
type SettingsDescriptor struct {
	Settings              []SettingEntry `json:"settings"`
	SelectedConfiguration string         `json:"selected_configuration"`
}

// SettingEntry is one available configuration and its JSON schema.
type SettingEntry struct {
	Name   string         `json:"name"`
	Value  map[string]any `json:"value"`
	Schema map[string]any `json:"schema"`
}

// Selected returns the entry currently in use, if any.
func (d *SettingsDescriptor) Selected() (SettingEntry, bool) {
	for _, s := range d.Settings {
		if s.Name == d.SelectedConfiguration {
			return s, true
		}
	}
	return SettingEntry{}, false
}

// CollectionsResponse is the reply of GET /memory/collections/.
type CollectionsResponse struct {
	Collections []Collection `json:"collections"`
}

// Collection is a vector memory collection.
type Collection struct {
	Name         string `json:"name"`
	VectorsCount int    `json:"vectors_count"`
}

// RecallResponse is the reply of GET /memory/recall/.
type RecallResponse struct {
	Query   RecallQuery   `json:"query"`
	Vectors RecallVectors `json:"vectors"`
}

type RecallQuery struct {
	Text   string    `json:"text"`
	Vector []float64 `json:"vector"`
}

type RecallVectors struct {
	Embedder    string                    `json:"embedder"`
	Collections map[string][]MemoryRecord `json:"collections"`
}

// MemoryRecord is a single recalled memory.
type MemoryRecord struct {
	ID          string         `json:"id"`
	PageContent string         `json:"page_content"`
	Score       float64        `json:"score"`
	Metadata    map[string]any `json:"metadata"`
}

// PluginsResponse is the reply of GET /plugins/.
type PluginsResponse struct {
	Installed []Plugin `json:"installed"`
	Registry  []Plugin `json:"registry"`
}

// Plugin describes an installed or registry plugin.
type Plugin struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AuthorName  string `json:"author_name"`
	AuthorURL   string `json:"author_url"`
	PluginURL   string `json:"plugin_url"`
	Tags        string `json:"tags"`
	Thumb       string `json:"thumb"`
	Version     string `json:"version"`
	Active      bool   `json:"active"`
}

// FileResponse is the reply of the file and plugin upload endpoints.
type FileResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Info        string `json:"info"`
}

// WebResponse is the reply of POST /rabbithole/web/.
type WebResponse struct {
	URL  string `json:"url"`
	Info string `json:"info"`
}

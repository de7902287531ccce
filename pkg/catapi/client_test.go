package catapi

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "meow"

// recordedRequest is what the fake Cat saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// fakeCat records every request and answers with a fixed status and body.
type fakeCat struct {
	mu       sync.Mutex
	requests []recordedRequest

	status int
	body   string
}

func (f *fakeCat) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	status, respBody := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if respBody == "" {
		respBody = `{"ok":true}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, respBody)
}

func (f *fakeCat) last(t *testing.T) recordedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the server")
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, fake *fakeCat) *Client {
	t.Helper()

	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := New(Config{
		BaseURL: server.URL,
		APIKey:  testAPIKey,
		Timeout: 5 * time.Second,
	}, WithLogger(hclog.NewNullLogger()))
	require.NoError(t, err)
	return client
}

func testFile(name, content string) File {
	return File{Name: name, Content: strings.NewReader(content)}
}

// operation is one call of the public surface.
type operation struct {
	name      string
	call      func(ctx context.Context, c *Client) (*Response, error)
	method    string
	path      string
	multipart bool
}

func operations() []operation {
	return []operation{
		{
			name:   "embedder list",
			call:   func(ctx context.Context, c *Client) (*Response, error) { return c.Embedders().GetAll(ctx) },
			method: http.MethodGet,
			path:   "/settings/embedder/",
		},
		{
			name: "embedder update",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Embedders().UpdateSettings(ctx, "EmbedderOpenAIConfig", map[string]any{"model": "text-embedding-3-small"})
			},
			method: http.MethodPut,
			path:   "/settings/embedder/EmbedderOpenAIConfig",
		},
		{
			name:   "llm list",
			call:   func(ctx context.Context, c *Client) (*Response, error) { return c.LanguageModels().GetAll(ctx) },
			method: http.MethodGet,
			path:   "/settings/llm/",
		},
		{
			name: "llm update",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.LanguageModels().UpdateSettings(ctx, "LLMOllamaConfig", map[string]any{"model": "llama3"})
			},
			method: http.MethodPut,
			path:   "/settings/llm/LLMOllamaConfig",
		},
		{
			name:   "collections list",
			call:   func(ctx context.Context, c *Client) (*Response, error) { return c.Memories().GetAll(ctx) },
			method: http.MethodGet,
			path:   "/memory/collections/",
		},
		{
			name:   "wipe all collections",
			call:   func(ctx context.Context, c *Client) (*Response, error) { return c.Memories().WipeCollections(ctx) },
			method: http.MethodDelete,
			path:   "/memory/wipe-collections/",
		},
		{
			name: "wipe one collection",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Memories().WipeSingleCollection(ctx, "declarative")
			},
			method: http.MethodDelete,
			path:   "/memory/collections/declarative",
		},
		{
			name:   "wipe conversation",
			call:   func(ctx context.Context, c *Client) (*Response, error) { return c.Memories().WipeCurrentConversation(ctx) },
			method: http.MethodDelete,
			path:   "/memory/working-memory/conversation-history/",
		},
		{
			name: "recall",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Memories().RecallMemory(ctx, url.Values{"text": {"hello"}})
			},
			method: http.MethodGet,
			path:   "/memory/recall/",
		},
		{
			name:   "plugins list",
			call:   func(ctx context.Context, c *Client) (*Response, error) { return c.Plugins().GetAll(ctx) },
			method: http.MethodGet,
			path:   "/plugins/",
		},
		{
			name:   "plugin toggle",
			call:   func(ctx context.Context, c *Client) (*Response, error) { return c.Plugins().Toggle(ctx, "core_plugin") },
			method: http.MethodPut,
			path:   "/plugins/toggle/core_plugin",
		},
		{
			name: "plugin upload",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.Plugins().Upload(ctx, testFile("my_plugin.zip", "PK\x03\x04"))
			},
			method:    http.MethodPost,
			path:      "/plugins/install/",
			multipart: true,
		},
		{
			name: "ingest file",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.RabbitHole().SendFile(ctx, testFile("notes.txt", "the cat is on the table"))
			},
			method:    http.MethodPost,
			path:      "/rabbithole/",
			multipart: true,
		},
		{
			name: "ingest memory file",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.RabbitHole().SendMemory(ctx, testFile("memories.json", `{"collections":{}}`))
			},
			method:    http.MethodPost,
			path:      "/rabbithole/memory/",
			multipart: true,
		},
		{
			name: "ingest web",
			call: func(ctx context.Context, c *Client) (*Response, error) {
				return c.RabbitHole().SendWeb(ctx, "https://example.com")
			},
			method: http.MethodPost,
			path:   "/rabbithole/web/",
		},
	}
}

func TestClient_Endpoints(t *testing.T) {
	for _, op := range operations() {
		t.Run(op.name, func(t *testing.T) {
			fake := &fakeCat{}
			client := newTestClient(t, fake)

			resp, err := op.call(context.Background(), client)
			require.NoError(t, err)
			require.NotNil(t, resp)

			req := fake.last(t)
			assert.Equal(t, op.method, req.Method)
			assert.Equal(t, op.path, req.Path)
			assert.Equal(t, testAPIKey, req.Header.Get(HeaderAccessToken))
			assert.Equal(t, "application/json", req.Header.Get("Accept"))
			assert.NotEmpty(t, req.Header.Get(HeaderRequestID))
			assert.Equal(t, req.Header.Get(HeaderRequestID), resp.RequestID)

			if op.multipart {
				assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data; boundary="),
					"got Content-Type %q", req.Header.Get("Content-Type"))
			} else {
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			}

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
		})
	}
}

func TestClient_BodylessOperationsSendNoBody(t *testing.T) {
	bodyless := map[string]bool{
		"embedder list": true, "llm list": true, "collections list": true,
		"wipe all collections": true, "wipe one collection": true,
		"wipe conversation": true, "recall": true, "plugins list": true,
		"plugin toggle": true,
	}

	for _, op := range operations() {
		if !bodyless[op.name] {
			continue
		}
		t.Run(op.name, func(t *testing.T) {
			fake := &fakeCat{}
			client := newTestClient(t, fake)

			_, err := op.call(context.Background(), client)
			require.NoError(t, err)
			assert.Empty(t, fake.last(t).Body)
		})
	}
}

func TestSettingsGroup_UpdateSettingsForwardsBodyVerbatim(t *testing.T) {
	settings := map[string]any{
		"openai_api_key": "sk-test",
		"model_name":     "gpt-4o",
		"temperature":    0.7,
		"streaming":      true,
		"nested":         map[string]any{"stop": []any{"\n", "Human:"}},
	}
	want, err := json.Marshal(settings)
	require.NoError(t, err)

	for name, group := range map[string]func(*Client) SettingsGroup{
		"embedder": (*Client).Embedders,
		"llm":      (*Client).LanguageModels,
	} {
		t.Run(name, func(t *testing.T) {
			fake := &fakeCat{}
			client := newTestClient(t, fake)

			_, err := group(client).UpdateSettings(context.Background(), "SomeConfig", settings)
			require.NoError(t, err)

			assert.JSONEq(t, string(want), string(fake.last(t).Body))
		})
	}
}

func TestSettingsGroup_UpdateSettingsRawMessage(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	raw := json.RawMessage(`{"model":"llama3","base_url":"http://ollama:11434"}`)
	_, err := client.LanguageModels().UpdateSettings(context.Background(), "LLMOllamaConfig", raw)
	require.NoError(t, err)

	assert.Equal(t, string(raw), string(fake.last(t).Body))
}

func TestSettingsGroup_NameIsPathEscaped(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	_, err := client.Embedders().UpdateSettings(context.Background(), "my config/v2", map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "/settings/embedder/my%20config%2Fv2", fake.last(t).Path)
}

func TestMemoryStore_RecallMemoryForwardsParamsExactly(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	params := url.Values{
		"text":     {"what is the cat?"},
		"k":        {"5"},
		"metadata": {`{"source":"notes.txt"}`},
		"tags":     {"a", "b"},
	}
	_, err := client.Memories().RecallMemory(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, params, fake.last(t).Query)
}

func TestMemoryStore_RecallMemoryWithoutParams(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	_, err := client.Memories().RecallMemory(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, fake.last(t).Query)
}

func TestMemoryStore_WipeSingleCollection(t *testing.T) {
	fake := &fakeCat{body: `{"deleted":{"episodic":true}}`}
	client := newTestClient(t, fake)

	resp, err := client.Memories().WipeSingleCollection(context.Background(), "episodic")
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/memory/collections/episodic", req.Path)
	assert.Empty(t, req.Body)
	assert.Equal(t, `{"deleted":{"episodic":true}}`, string(resp.Body))
}

func TestIngestionGateway_SendWeb(t *testing.T) {
	fake := &fakeCat{body: `{"url":"https://example.com","info":"Website is being ingested asynchronously"}`}
	client := newTestClient(t, fake)

	resp, err := client.RabbitHole().SendWeb(context.Background(), "https://example.com")
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/rabbithole/web/", req.Path)
	assert.JSONEq(t, `{"url":"https://example.com"}`, string(req.Body))

	var web WebResponse
	require.NoError(t, resp.Decode(&web))
	assert.Equal(t, "https://example.com", web.URL)
}

func TestUploads_SingleFileField(t *testing.T) {
	for _, op := range operations() {
		if !op.multipart {
			continue
		}
		t.Run(op.name, func(t *testing.T) {
			fake := &fakeCat{}
			client := newTestClient(t, fake)

			_, err := op.call(context.Background(), client)
			require.NoError(t, err)

			req := fake.last(t)
			assert.Equal(t, testAPIKey, req.Header.Get(HeaderAccessToken))

			mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
			require.NoError(t, err)
			assert.Equal(t, "multipart/form-data", mediaType)

			form, err := multipart.NewReader(strings.NewReader(string(req.Body)), params["boundary"]).ReadForm(1 << 20)
			require.NoError(t, err)
			defer form.RemoveAll()

			assert.Empty(t, form.Value)
			require.Len(t, form.File, 1)
			require.Len(t, form.File["file"], 1)
		})
	}
}

func TestUploads_FileContentAndType(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	file := File{Name: "notes.txt", ContentType: "text/plain", Content: strings.NewReader("the cat is on the table")}
	_, err := client.RabbitHole().SendFile(context.Background(), file)
	require.NoError(t, err)

	req := fake.last(t)
	_, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	require.NoError(t, err)

	mr := multipart.NewReader(strings.NewReader(string(req.Body)), params["boundary"])
	part, err := mr.NextPart()
	require.NoError(t, err)

	assert.Equal(t, "file", part.FormName())
	assert.Equal(t, "notes.txt", part.FileName())
	assert.Equal(t, "text/plain", part.Header.Get("Content-Type"))

	content, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, "the cat is on the table", string(content))

	_, err = mr.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestUploads_MissingContentIsRequestError(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	_, err := client.Plugins().Upload(context.Background(), File{Name: "plugin.zip"})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrNameRequest, apiErr.Name)
	assert.Equal(t, CodeInvalidArg, apiErr.Code)
	assert.Empty(t, fake.requests)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestUploads_ReadFailureIsRequestError(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	_, err := client.RabbitHole().SendFile(context.Background(), File{Name: "broken.pdf", Content: failingReader{}})
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrNameRequest, apiErr.Name)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestClient_NetworkFailureIsNormalized(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := New(Config{BaseURL: baseURL, APIKey: testAPIKey, Timeout: 2 * time.Second})
	require.NoError(t, err)

	for _, op := range operations() {
		t.Run(op.name, func(t *testing.T) {
			resp, err := op.call(context.Background(), client)
			require.Error(t, err)
			assert.Nil(t, resp)

			apiErr, ok := AsError(err)
			require.True(t, ok, "expected *Error, got %T", err)
			assert.Equal(t, ErrNameNetwork, apiErr.Name)
			assert.Equal(t, CodeConnRefused, apiErr.Code)
			assert.Equal(t, op.method, apiErr.Method)
			assert.Zero(t, apiErr.Status)

			// The normalized shape must survive a JSON round trip.
			data, err := json.Marshal(apiErr)
			require.NoError(t, err)
			var decoded map[string]any
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, ErrNameNetwork, decoded["name"])
			assert.NotEmpty(t, decoded["message"])
		})
	}
}

func TestClient_HTTPErrorIsNormalized(t *testing.T) {
	fake := &fakeCat{
		status: http.StatusNotFound,
		body:   `{"detail":{"error":"Plugin not found"}}`,
	}
	client := newTestClient(t, fake)

	_, err := client.Plugins().Toggle(context.Background(), "missing")
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrNameHTTP, apiErr.Name)
	assert.Equal(t, CodeBadRequest, apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, `{"error":"Plugin not found"}`, apiErr.Message)
	assert.JSONEq(t, fake.body, string(apiErr.Body))
	assert.NotEmpty(t, apiErr.RequestID)
	assert.False(t, apiErr.Timeout())
}

func TestClient_HTTPErrorWithStringDetail(t *testing.T) {
	fake := &fakeCat{
		status: http.StatusForbidden,
		body:   `{"detail":"Invalid Credentials"}`,
	}
	client := newTestClient(t, fake)

	_, err := client.Memories().WipeCollections(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid Credentials", apiErr.Message)
	assert.Contains(t, err.Error(), "status 403")
}

func TestClient_ServerErrorWithTextBody(t *testing.T) {
	fake := &fakeCat{
		status: http.StatusBadGateway,
		body:   "upstream unavailable",
	}
	client := newTestClient(t, fake)

	_, err := client.Embedders().GetAll(context.Background())
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeBadResponse, apiErr.Code)
	assert.Equal(t, "request failed with status code 502", apiErr.Message)
	assert.Equal(t, `"upstream unavailable"`, string(apiErr.Body))

	_, err = json.Marshal(apiErr)
	assert.NoError(t, err)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, APIKey: testAPIKey, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Plugins().GetAll(context.Background())
	require.Error(t, err)

	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrNameTimeout, apiErr.Name)
	assert.True(t, apiErr.Timeout())
}

func TestClient_CanceledContext(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Memories().GetAll(ctx)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrNameCanceled, apiErr.Name)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_FailuresDoNotAffectLaterCalls(t *testing.T) {
	fake := &fakeCat{status: http.StatusInternalServerError}
	client := newTestClient(t, fake)

	_, err := client.Plugins().GetAll(context.Background())
	require.Error(t, err)

	fake.mu.Lock()
	fake.status = http.StatusOK
	fake.mu.Unlock()

	_, err = client.Plugins().GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, fake.requests, 2, "failed calls must not be retried")
}

func TestClient_ConcurrentUse(t *testing.T) {
	fake := &fakeCat{}
	client := newTestClient(t, fake)

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = client.Memories().WipeSingleCollection(context.Background(), "episodic")
			} else {
				_, err = client.RabbitHole().SendFile(context.Background(), testFile("doc.md", "# doc"))
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, fake.requests, n)
	for _, req := range fake.requests {
		assert.Equal(t, testAPIKey, req.Header.Get(HeaderAccessToken))
	}
}

func TestNew_ConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError bool
		errorMsg  string
	}{
		{
			name:   "Valid config",
			config: Config{BaseURL: "https://cat.example.com", APIKey: "key"},
		},
		{
			name:   "Defaults applied",
			config: Config{},
		},
		{
			name:   "Empty API key is allowed",
			config: Config{BaseURL: "http://localhost:1865"},
		},
		{
			name:      "Invalid URL scheme",
			config:    Config{BaseURL: "ftp://cat.example.com"},
			wantError: true,
			errorMsg:  "scheme",
		},
		{
			name:      "Missing host",
			config:    Config{BaseURL: "http://"},
			wantError: true,
			errorMsg:  "host",
		},
		{
			name:      "Negative timeout",
			config:    Config{BaseURL: "http://localhost:1865", Timeout: -1 * time.Second},
			wantError: true,
			errorMsg:  "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNew_CopiesConfig(t *testing.T) {
	verify := false
	cfg := Config{BaseURL: "http://localhost:1865/", TLSVerify: &verify}

	client, err := New(cfg)
	require.NoError(t, err)

	verify = true
	cfg.BaseURL = "http://elsewhere"

	assert.Equal(t, "http://localhost:1865", client.BaseURL())
	assert.False(t, *client.config.TLSVerify)
}

func TestClient_UserAgent(t *testing.T) {
	fake := &fakeCat{}
	server := httptest.NewServer(fake)
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, UserAgent: "catctl/test"})
	require.NoError(t, err)

	_, err = client.Plugins().GetAll(context.Background())
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, "catctl/test", req.Header.Get("User-Agent"))
	assert.Equal(t, []string{""}, req.Header.Values(HeaderAccessToken))
}

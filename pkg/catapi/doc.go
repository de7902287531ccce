// Package catapi provides a typed client for the Cat admin REST API.
//
// # Overview
//
// A Client owns one configured HTTP transport (base URL, timeout, API key) and
// exposes five endpoint groups on top of it. Every method performs exactly one
// HTTP request and returns the remote response unchanged. Nothing is cached,
// validated or retried.
//
//	client, err := catapi.New(catapi.Config{
//	  BaseURL: "http://localhost:1865",
//	  APIKey:  os.Getenv("CAT_API_KEY"),
//	  Timeout: 10 * time.Second,
//	})
//	resp, err := client.Memories.WipeSingleCollection(ctx, "episodic")
//
// # Endpoint Groups
//
// Embedders (settings for the embedding model):
//   - GET    /settings/embedder/
//   - PUT    /settings/embedder/:name
//
// LanguageModels (settings for the language model):
//   - GET    /settings/llm/
//   - PUT    /settings/llm/:name
//
// Memories:
//   - GET    /memory/collections/
//   - DELETE /memory/wipe-collections/
//   - DELETE /memory/collections/:collection
//   - DELETE /memory/working-memory/conversation-history/
//   - GET    /memory/recall/
//
// Plugins:
//   - GET    /plugins/
//   - PUT    /plugins/toggle/:id
//   - POST   /plugins/install/ (multipart)
//
// RabbitHole (ingestion):
//   - POST   /rabbithole/ (multipart)
//   - POST   /rabbithole/memory/ (multipart)
//   - POST   /rabbithole/web/
//
// # Authentication
//
// Every request carries the configured key in the access_token header. The key
// is never logged or serialized.
//
// # Error Handling
//
// Network failures, timeouts and non-2xx responses are all returned as a
// *Error, a plain struct that marshals to JSON. Use AsError to get at it.
//
// # Concurrency
//
// A Client holds no per-call state and is safe for concurrent use. Calls block
// until the response arrives, the configured timeout elapses or the context is
// canceled; run them in goroutines to issue them concurrently.
package catapi

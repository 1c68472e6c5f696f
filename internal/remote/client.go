// Package remote implements types.Cupboard as a client of the catalog HTTP
// data service (internal/server). Every call blocks until the service
// acknowledges it; deadlines come from the caller's context and the
// configured client timeout.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mesh-intelligence/catalog/internal/wire"
	"github.com/mesh-intelligence/catalog/pkg/types"
)

// DefaultTimeout applies when Config.RemoteTimeout is zero.
const DefaultTimeout = 30 * time.Second

// Error is a failure reported by the data service. It unwraps to the store
// sentinel named by Code when there is one.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote %d %s: %s", e.Status, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return wire.ErrorForCode(e.Code)
}

// Backend is a Cupboard backed by the data service.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	baseURL  string
	client   *http.Client
	tables   map[string]types.Table
}

var _ types.Cupboard = (*Backend)(nil)

// NewBackend creates a detached remote backend.
func NewBackend() *Backend {
	return &Backend{tables: make(map[string]types.Table)}
}

// Attach points the backend at config.RemoteURL. No request is made.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendRemote {
		return fmt.Errorf("remote backend cannot attach %q: %w", config.Backend, types.ErrBackendUnknown)
	}
	base := strings.TrimRight(config.RemoteURL, "/")
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("remote url %q: %w", config.RemoteURL, types.ErrRemoteURLEmpty)
	}

	timeout := config.RemoteTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	b.baseURL = base
	b.client = &http.Client{Timeout: timeout}
	b.attached = true
	for _, name := range types.StandardTableNames {
		b.tables[name] = &remoteTable{backend: b, name: name}
	}
	return nil
}

// Detach drops the connection settings. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		b.client.CloseIdleConnections()
	}
	b.attached = false
	b.client = nil
	b.tables = make(map[string]types.Table)
	return nil
}

// GetTable returns the named table.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrCupboardDetached
	}
	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Health calls GET /v1/health.
func (b *Backend) Health(ctx context.Context) error {
	return b.do(ctx, http.MethodGet, "/v1/health", nil, nil, nil)
}

// do sends one request and decodes the envelope's data into out when out is
// non-nil.
func (b *Backend) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return types.ErrCupboardDetached
	}
	target, client := b.baseURL+path, b.client
	b.mu.RUnlock()
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *wire.Error   `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%s %s: decode response (status %d): %w", method, path, resp.StatusCode, err)
	}
	if !envelope.Success {
		e := &Error{Status: resp.StatusCode, Code: wire.CodeInternal, Message: http.StatusText(resp.StatusCode)}
		if envelope.Error != nil {
			e.Code, e.Message = envelope.Error.Code, envelope.Error.Message
		}
		return e
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}

// remoteTable is one entity path on the data service.
type remoteTable struct {
	backend *Backend
	name    string
}

func (t *remoteTable) path(id string) string {
	if id == "" {
		return "/v1/" + url.PathEscape(t.name)
	}
	return "/v1/" + url.PathEscape(t.name) + "/" + url.PathEscape(id)
}

func (t *remoteTable) Get(ctx context.Context, id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	entity, err := types.NewEntity(t.name)
	if err != nil {
		return nil, err
	}
	if err := t.backend.do(ctx, http.MethodGet, t.path(id), nil, nil, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Set creates (POST) when id is empty and upserts (PUT) otherwise.
func (t *remoteTable) Set(ctx context.Context, id string, data any) (string, error) {
	if _, ok := data.(types.Entity); !ok {
		return "", types.ErrInvalidData
	}
	method := http.MethodPost
	if id != "" {
		method = http.MethodPut
	}
	var created wire.CreatedData
	if err := t.backend.do(ctx, method, t.path(id), nil, data, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", errors.New("remote create returned no id")
	}
	return created.ID, nil
}

func (t *remoteTable) Patch(ctx context.Context, id, field string, value any) error {
	if id == "" {
		return types.ErrInvalidID
	}
	req := wire.PatchRequest{Field: field, Value: value}
	return t.backend.do(ctx, http.MethodPatch, t.path(id), nil, req, nil)
}

func (t *remoteTable) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	return t.backend.do(ctx, http.MethodDelete, t.path(id), nil, nil, nil)
}

func (t *remoteTable) Fetch(ctx context.Context, filter types.Filter) ([]any, error) {
	query, err := encodeFilter(filter)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := t.backend.do(ctx, http.MethodGet, t.path(""), query, nil, &raw); err != nil {
		return nil, err
	}
	results := make([]any, 0, len(raw))
	for _, r := range raw {
		entity, err := types.NewEntity(t.name)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(r, entity); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", t.name, err)
		}
		results = append(results, entity)
	}
	return results, nil
}

func encodeFilter(filter types.Filter) (url.Values, error) {
	query := url.Values{}
	for key, v := range filter {
		switch val := v.(type) {
		case string:
			query.Set(key, val)
		case bool:
			query.Set(key, strconv.FormatBool(val))
		default:
			return nil, fmt.Errorf("filter %s: %w", key, types.ErrInvalidFilter)
		}
	}
	return query, nil
}

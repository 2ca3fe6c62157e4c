package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	entitiesPath   = "/rest/v1/synced_entities"
	tombstonesPath = "/rest/v1/deleted_entities"

	uniqueKey = "user_id,entity_type,entity_id"
)

// RESTClient talks to the hosted backend over its REST API. Upserts use the
// merge-duplicates preference against the unique
// (user_id, entity_type, entity_id) key, so re-uploading an existing entity
// refreshes its remote fields instead of failing.
type RESTClient struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
}

// NewRESTClient builds a client for the backend at baseURL. timeout bounds
// every request at the transport layer.
func NewRESTClient(baseURL string, apiKey string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *RESTClient) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *RESTClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// CurrentUser extracts the user identity from the access token subject.
// Signature verification is the backend's job; the client only needs the
// claimed identity and the expiry.
func (c *RESTClient) CurrentUser(ctx context.Context) (*models.User, error) {
	token := c.token()
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNotAuthenticated, err)
	}
	if claims.Subject == "" {
		return nil, common.ErrNotAuthenticated
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: token expired", common.ErrNotAuthenticated)
	}
	return &models.User{Id: claims.Subject}, nil
}

type entityRecord struct {
	UserID     string          `json:"user_id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func (c *RESTClient) Upsert(ctx context.Context, row Row) error {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return err
	}

	body := []entityRecord{{
		UserID:     user.Id,
		EntityType: string(row.EntityType),
		EntityID:   row.EntityID,
		Payload:    row.Payload,
	}}

	q := url.Values{"on_conflict": {uniqueKey}}
	return c.do(ctx, http.MethodPost, entitiesPath, q, body, "resolution=merge-duplicates", nil)
}

func (c *RESTClient) List(ctx context.Context, entityType models.EntityType) ([]Row, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"select":      {"entity_type,entity_id,payload"},
		"user_id":     {"eq." + user.Id},
		"entity_type": {"eq." + string(entityType)},
	}

	var records []entityRecord
	if err := c.do(ctx, http.MethodGet, entitiesPath, q, nil, "", &records); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{
			EntityType: models.EntityType(rec.EntityType),
			EntityID:   rec.EntityID,
			Payload:    rec.Payload,
		})
	}
	return rows, nil
}

func (c *RESTClient) Delete(ctx context.Context, entityType models.EntityType, entityID string) error {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return err
	}

	q := url.Values{
		"user_id":     {"eq." + user.Id},
		"entity_type": {"eq." + string(entityType)},
		"entity_id":   {"eq." + entityID},
	}
	return c.do(ctx, http.MethodDelete, entitiesPath, q, nil, "", nil)
}

func (c *RESTClient) UpsertTombstone(ctx context.Context, t models.Tombstone) error {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return err
	}

	body := []entityRecord{{
		UserID:     user.Id,
		EntityType: string(t.EntityType),
		EntityID:   t.EntityID,
	}}

	q := url.Values{"on_conflict": {uniqueKey}}
	return c.do(ctx, http.MethodPost, tombstonesPath, q, body, "resolution=ignore-duplicates", nil)
}

func (c *RESTClient) ListTombstones(ctx context.Context) ([]models.Tombstone, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"select":  {"entity_type,entity_id"},
		"user_id": {"eq." + user.Id},
	}

	var records []entityRecord
	if err := c.do(ctx, http.MethodGet, tombstonesPath, q, nil, "", &records); err != nil {
		return nil, err
	}

	result := make([]models.Tombstone, 0, len(records))
	for _, rec := range records {
		result = append(result, models.Tombstone{
			EntityType: models.EntityType(rec.EntityType),
			EntityID:   rec.EntityID,
		})
	}
	return result, nil
}

// do performs one request. A non-2xx response is returned as an error
// wrapping common.ErrRemoteUnavailable so callers can classify the failure.
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, body any, prefer string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.token())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", common.ErrRemoteUnavailable, method, path, resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

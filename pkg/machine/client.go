package machine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Machine is a provisioned machine record from the orchestration service.
type Machine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	PackageID string `json:"package_id"`
	ImageID   string `json:"image_id"`
	Memory    int64  `json:"memory"`
	Disk      int64  `json:"disk"`
}

// CreateSpec is the provisioning request handed to the orchestration
// service after the gateway has resolved package and image.
type CreateSpec struct {
	Name      string `json:"name"`
	PackageID string `json:"package_id"`
	ImageID   string `json:"image_id"`
}

// Client is the orchestration service contract.
type Client interface {
	List(ctx context.Context, owner string) ([]Machine, error)
	Create(ctx context.Context, owner string, spec CreateSpec) (*Machine, error)
	Resize(ctx context.Context, owner, id, packageID string) (*Machine, error)
}

// HTTPClient talks to the orchestration service over its REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

// NewHTTPClient creates an orchestration client for the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.WithField("client", "orchestrator"),
	}
}

func (c *HTTPClient) List(ctx context.Context, owner string) ([]Machine, error) {
	endpoint := c.baseURL + "/machines?owner=" + url.QueryEscape(owner)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var machines []Machine
	if err := c.do(req, http.StatusOK, &machines); err != nil {
		return nil, err
	}
	return machines, nil
}

func (c *HTTPClient) Create(ctx context.Context, owner string, spec CreateSpec) (*Machine, error) {
	body, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/machines?owner=" + url.QueryEscape(owner)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var m Machine
	if err := c.do(req, http.StatusCreated, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) Resize(ctx context.Context, owner, id, packageID string) (*Machine, error) {
	body, err := json.Marshal(map[string]string{"package_id": packageID})
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/machines/%s?action=resize&owner=%s",
		c.baseURL, url.PathEscape(id), url.QueryEscape(owner))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var m Machine
	if err := c.do(req, http.StatusOK, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) do(req *http.Request, wantStatus int, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("orchestration service returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

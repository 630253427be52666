package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPPackageClient talks to the package catalog service over its REST API.
// No retries happen at this layer; a failed call is surfaced unchanged.
type HTTPPackageClient struct {
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

// NewHTTPPackageClient creates a package catalog client for the given base
// URL (e.g. "http://pkgapi.internal:8080").
func NewHTTPPackageClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *HTTPPackageClient {
	return &HTTPPackageClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.WithField("client", "pkgapi"),
	}
}

func (c *HTTPPackageClient) GetByID(ctx context.Context, id, owner string) (*Package, error) {
	q := url.Values{}
	if owner != "" {
		q.Set("owner", owner)
	}
	var pkg Package
	if err := doGet(ctx, c.client, c.baseURL+"/packages/"+url.PathEscape(id), q, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (c *HTTPPackageClient) List(ctx context.Context, filter PackageFilter, owner string) ([]Package, error) {
	q := url.Values{}
	if owner != "" {
		q.Set("owner", owner)
	}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Memory != 0 {
		q.Set("memory", strconv.FormatInt(filter.Memory, 10))
	}
	if filter.Disk != 0 {
		q.Set("disk", strconv.FormatInt(filter.Disk, 10))
	}
	if filter.Swap != 0 {
		q.Set("swap", strconv.FormatInt(filter.Swap, 10))
	}
	if filter.Version != "" {
		q.Set("version", filter.Version)
	}
	if filter.VCPUs != 0 {
		q.Set("vcpus", strconv.Itoa(filter.VCPUs))
	}
	if filter.Group != "" {
		q.Set("group", filter.Group)
	}
	if filter.Active != nil {
		q.Set("active", strconv.FormatBool(*filter.Active))
	}
	var pkgs []Package
	if err := doGet(ctx, c.client, c.baseURL+"/packages", q, &pkgs); err != nil {
		return nil, err
	}
	return pkgs, nil
}

// HTTPImageClient talks to the image catalog service over its REST API.
type HTTPImageClient struct {
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

// NewHTTPImageClient creates an image catalog client for the given base URL.
func NewHTTPImageClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *HTTPImageClient {
	return &HTTPImageClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.WithField("client", "imgapi"),
	}
}

func (c *HTTPImageClient) GetByID(ctx context.Context, id, owner string) (*Image, error) {
	q := url.Values{}
	if owner != "" {
		q.Set("owner", owner)
	}
	var img Image
	if err := doGet(ctx, c.client, c.baseURL+"/images/"+url.PathEscape(id), q, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (c *HTTPImageClient) List(ctx context.Context, filter ImageFilter, owner string) ([]Image, error) {
	q := url.Values{}
	if owner != "" {
		q.Set("owner", owner)
	}
	if filter.Name != "" {
		q.Set("name", filter.Name)
	}
	if filter.Version != "" {
		q.Set("version", filter.Version)
	}
	if filter.OS != "" {
		q.Set("os", filter.OS)
	}
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}
	if filter.Active != nil {
		q.Set("active", strconv.FormatBool(*filter.Active))
	}
	var imgs []Image
	if err := doGet(ctx, c.client, c.baseURL+"/images", q, &imgs); err != nil {
		return nil, err
	}
	return imgs, nil
}

func doGet(ctx context.Context, client *http.Client, rawURL string, query url.Values, out any) error {
	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("catalog backend %s returned status %d", req.URL.Host, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by single-entity lookups when the backend has no
// matching entity. Callers decide whether absence is fatal.
var ErrNotFound = errors.New("catalog: entity not found")

// Package is a compute package record as served by the package catalog
// backend. The gateway only reads and caches copies, never mutates.
type Package struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Memory      int64    `json:"memory"`
	Disk        int64    `json:"disk"`
	Swap        int64    `json:"swap"`
	VCPUs       int      `json:"vcpus"`
	LWPs        int      `json:"lwps"`
	Default     bool     `json:"default"`
	Active      bool     `json:"active"`
	Owners      []string `json:"owners,omitempty"`
	Description string   `json:"description,omitempty"`
	Group       string   `json:"group,omitempty"`
}

// Image is an image (dataset) record as served by the image catalog backend.
type Image struct {
	ID           string         `json:"id"`
	URN          string         `json:"urn,omitempty"`
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	OS           string         `json:"os"`
	Type         string         `json:"type,omitempty"`
	Requirements map[string]any `json:"requirements,omitempty"`
	Default      bool           `json:"default"`
	Active       bool           `json:"active"`
	Public       bool           `json:"public"`
	State        string         `json:"state,omitempty"`
	Owner        string         `json:"owner,omitempty"`
	Homepage     string         `json:"homepage,omitempty"`
	PublishedAt  string         `json:"published_at,omitempty"`
	EULA         string         `json:"eula,omitempty"`
	ACL          []string       `json:"acl,omitempty"`
	Origin       string         `json:"origin,omitempty"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// PackageFilter narrows a package list query. The zero value matches
// everything and is the only shape eligible for caching.
type PackageFilter struct {
	Name    string
	Memory  int64
	Disk    int64
	Swap    int64
	Version string
	VCPUs   int
	Group   string
	// Active narrows to active (true) or disabled (false) packages; nil
	// matches both.
	Active *bool
}

// Empty reports whether the filter carries no narrowing parameters. Active
// is a scoping flag set by the gateway itself, not a client-supplied
// narrowing parameter, so it does not affect cache eligibility.
func (f PackageFilter) Empty() bool {
	return f.Name == "" && f.Memory == 0 && f.Disk == 0 && f.Swap == 0 &&
		f.Version == "" && f.VCPUs == 0 && f.Group == ""
}

// ImageFilter narrows an image list query.
type ImageFilter struct {
	Name    string
	Version string
	OS      string
	Type    string
	Active  *bool
}

// Empty reports whether the filter carries no narrowing parameters.
func (f ImageFilter) Empty() bool {
	return f.Name == "" && f.Version == "" && f.OS == "" && f.Type == ""
}

// PackageClient is the package catalog backend contract. An empty owner
// string means unrestricted (no ownership filter); a non-empty owner limits
// results to packages visible to that tenant (global packages included).
type PackageClient interface {
	GetByID(ctx context.Context, id, owner string) (*Package, error)
	List(ctx context.Context, filter PackageFilter, owner string) ([]Package, error)
}

// ImageClient is the image catalog backend contract, scoped the same way.
type ImageClient interface {
	GetByID(ctx context.Context, id, owner string) (*Image, error)
	List(ctx context.Context, filter ImageFilter, owner string) ([]Image, error)
}

// Bool returns a pointer to b, for filter literals.
func Bool(b bool) *bool { return &b }

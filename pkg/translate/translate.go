package translate

import (
	"github.com/stratovia/cloudgate/pkg/catalog"
	"github.com/stratovia/cloudgate/pkg/version"
)

// Package is the version-shaped public representation of a compute package.
// Gated fields are pointers so an omitted field and an empty value are
// distinguishable on the wire.
type Package struct {
	Name    string `json:"name"`
	Memory  int64  `json:"memory"`
	Disk    int64  `json:"disk"`
	Swap    int64  `json:"swap"`
	VCPUs   int    `json:"vcpus"`
	LWPs    int    `json:"lwps"`
	Default bool   `json:"default"`

	ID          *string `json:"id,omitempty"`
	Version     *string `json:"version,omitempty"`
	Description *string `json:"description,omitempty"`
	Group       *string `json:"group,omitempty"`
}

// ImageError is the stable error shape exposed to clients. Raw backend error
// internals never appear here.
type ImageError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Image is the version-shaped public representation of an image (dataset).
type Image struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	OS           string         `json:"os"`
	Type         string         `json:"type,omitempty"`
	Requirements map[string]any `json:"requirements,omitempty"`
	Default      bool           `json:"default"`

	URN         *string     `json:"urn,omitempty"`
	Homepage    *string     `json:"homepage,omitempty"`
	PublishedAt *string     `json:"published_at,omitempty"`
	Owner       *string     `json:"owner,omitempty"`
	Public      *bool       `json:"public,omitempty"`
	State       *string     `json:"state,omitempty"`
	EULA        *string     `json:"eula,omitempty"`
	ACL         []string    `json:"acl,omitempty"`
	Origin      *string     `json:"origin,omitempty"`
	Error       *ImageError `json:"error,omitempty"`
}

// Translator maps raw catalog entities to their public representations for
// one request's version context. Pure; no I/O.
type Translator struct {
	vc *version.Context
}

// New binds a translator to a version context.
func New(vc *version.Context) *Translator {
	return &Translator{vc: vc}
}

// Context returns the bound version context.
func (t *Translator) Context() *version.Context {
	return t.vc
}

// Package shapes a raw package for the bound protocol track.
func (t *Translator) Package(raw catalog.Package) Package {
	out := Package{
		Name:    raw.Name,
		Memory:  raw.Memory,
		Disk:    raw.Disk,
		Swap:    raw.Swap,
		VCPUs:   raw.VCPUs,
		LWPs:    raw.LWPs,
		Default: raw.Default,
	}
	if t.vc.IncludesPackageField(version.FieldID) {
		out.ID = strPtr(raw.ID)
	}
	if t.vc.IncludesPackageField(version.FieldVersion) {
		out.Version = strPtr(raw.Version)
	}
	if t.vc.IncludesPackageField(version.FieldDescription) && raw.Description != "" {
		out.Description = strPtr(raw.Description)
	}
	if t.vc.IncludesPackageField(version.FieldGroup) && raw.Group != "" {
		out.Group = strPtr(raw.Group)
	}
	return out
}

// Image shapes a raw image for the bound protocol track.
func (t *Translator) Image(raw catalog.Image) Image {
	out := Image{
		ID:           raw.ID,
		Name:         raw.Name,
		Version:      raw.Version,
		OS:           raw.OS,
		Type:         raw.Type,
		Requirements: raw.Requirements,
		Default:      raw.Default,
	}
	if t.vc.IncludesImageField(version.FieldURN) && raw.URN != "" {
		out.URN = strPtr(raw.URN)
	}
	if t.vc.IncludesImageField(version.FieldHomepage) && raw.Homepage != "" {
		out.Homepage = strPtr(raw.Homepage)
	}
	if t.vc.IncludesImageField(version.FieldPublishedAt) && raw.PublishedAt != "" {
		out.PublishedAt = strPtr(raw.PublishedAt)
	}
	if t.vc.IncludesImageField(version.FieldOwner) && raw.Owner != "" {
		out.Owner = strPtr(raw.Owner)
	}
	if t.vc.IncludesImageField(version.FieldPublic) {
		public := raw.Public
		out.Public = &public
	}
	if t.vc.IncludesImageField(version.FieldState) && raw.State != "" {
		out.State = strPtr(raw.State)
	}
	if t.vc.IncludesImageField(version.FieldEULA) && raw.EULA != "" {
		out.EULA = strPtr(raw.EULA)
	}
	if t.vc.IncludesImageField(version.FieldACL) && len(raw.ACL) > 0 {
		out.ACL = raw.ACL
	}
	if t.vc.IncludesImageField(version.FieldOrigin) && raw.Origin != "" {
		out.Origin = strPtr(raw.Origin)
	}
	if t.vc.IncludesImageField(version.FieldError) && raw.ErrorCode != "" {
		out.Error = translateImageError(raw.ErrorCode)
	}
	return out
}

func strPtr(s string) *string { return &s }

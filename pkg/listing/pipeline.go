package listing

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/stratovia/cloudgate/pkg/cache"
	"github.com/stratovia/cloudgate/pkg/catalog"
	"github.com/stratovia/cloudgate/pkg/translate"
)

// Entity type labels used in cache keys.
const (
	EntityPackages = "packages"
	EntityImages   = "images"
)

// Pipeline orchestrates catalog list requests: build a filter from
// recognized query parameters, consult the per-tenant cache when the request
// carries no narrowing filter, fetch from the backend otherwise, and
// translate every raw entity for the request's protocol track.
type Pipeline struct {
	packages catalog.PackageClient
	images   catalog.ImageClient
	cache    *cache.ResultCache
	log      logrus.FieldLogger
}

// New creates a listing pipeline over the catalog clients and result cache.
func New(packages catalog.PackageClient, images catalog.ImageClient, rc *cache.ResultCache, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		packages: packages,
		images:   images,
		cache:    rc,
		log:      log.WithField("component", "listing"),
	}
}

// PackageFilterFromQuery builds a backend filter from recognized parameters
// only; anything else is ignored, not rejected.
func PackageFilterFromQuery(query url.Values) catalog.PackageFilter {
	f := catalog.PackageFilter{
		Name:    query.Get("name"),
		Version: query.Get("version"),
		Group:   query.Get("group"),
	}
	if v := query.Get("memory"); v != "" {
		f.Memory, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := query.Get("disk"); v != "" {
		f.Disk, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := query.Get("swap"); v != "" {
		f.Swap, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := query.Get("vcpus"); v != "" {
		f.VCPUs, _ = strconv.Atoi(v)
	}
	return f
}

// ImageFilterFromQuery builds an image filter from recognized parameters.
func ImageFilterFromQuery(query url.Values) catalog.ImageFilter {
	return catalog.ImageFilter{
		Name:    query.Get("name"),
		Version: query.Get("version"),
		OS:      query.Get("os"),
		Type:    query.Get("type"),
	}
}

// ListPackages runs the pipeline for packages. A backend error aborts the
// whole operation; partial results are never returned.
func (p *Pipeline) ListPackages(ctx context.Context, tenantID string, query url.Values, tr *translate.Translator) ([]translate.Package, error) {
	filter := PackageFilterFromQuery(query)
	eligible := filter.Empty()
	key := cache.Key(EntityPackages, tenantID)

	var raw []catalog.Package
	if !eligible || !p.cache.GetList(ctx, key, &raw) {
		filter.Active = catalog.Bool(true)
		var err error
		raw, err = p.packages.List(ctx, filter, tenantID)
		if err != nil {
			return nil, err
		}
		if eligible {
			p.cache.PutList(ctx, key, raw)
		}
	}

	// Output order equals backend (or cached) order.
	out := make([]translate.Package, 0, len(raw))
	for _, entity := range raw {
		out = append(out, tr.Package(entity))
	}
	return out, nil
}

// ListImages runs the pipeline for images. On the legacy 6.5 track,
// translated images lacking the legacy urn identifier are dropped after
// translation: old clients cannot address them even though they were
// fetched.
func (p *Pipeline) ListImages(ctx context.Context, tenantID string, query url.Values, tr *translate.Translator) ([]translate.Image, error) {
	filter := ImageFilterFromQuery(query)
	eligible := filter.Empty()
	key := cache.Key(EntityImages, tenantID)

	var raw []catalog.Image
	if !eligible || !p.cache.GetList(ctx, key, &raw) {
		filter.Active = catalog.Bool(true)
		var err error
		raw, err = p.images.List(ctx, filter, tenantID)
		if err != nil {
			return nil, err
		}
		if eligible {
			p.cache.PutList(ctx, key, raw)
		}
	}

	legacy := tr.Context().Legacy65
	out := make([]translate.Image, 0, len(raw))
	for _, entity := range raw {
		shaped := tr.Image(entity)
		if legacy && (shaped.URN == nil || *shaped.URN == "") {
			continue
		}
		out = append(out, shaped)
	}
	return out, nil
}

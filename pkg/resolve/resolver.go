package resolve

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stratovia/cloudgate/pkg/catalog"
)

// Route patterns the resolver's decision policy keys on. The api package
// registers these same patterns with the router so the two cannot drift.
const (
	RoutePing = "/ping"

	RoutePackages = "/:account/packages"
	RoutePackage  = "/:account/packages/:id"

	RouteImages   = "/:account/images"
	RouteImage    = "/:account/images/:id"
	RouteImageACL = "/:account/images/:id/acl"

	// Deprecated aliases kept for the legacy 6.5 track.
	RouteDatasets = "/:account/datasets"
	RouteDataset  = "/:account/datasets/:id"

	RouteMachines = "/:account/machines"
	RouteMachine  = "/:account/machines/:id"
)

// State describes what the resolver did for one entity kind on one request.
type State int

const (
	// Skipped means the route needed no pre-loaded selection.
	Skipped State = iota
	// SingleResolved means a targeted lookup ran; the selected entity may
	// still be absent (absence is recorded, not raised).
	SingleResolved
	// ListResolved means a candidate list was loaded for downstream use.
	ListResolved
)

// PackageSelection is the per-request package resolution result. When
// Candidates were loaded and Package is set, Package is always one of
// Candidates.
type PackageSelection struct {
	State      State
	Package    *catalog.Package
	Candidates []catalog.Package
}

// ImageSelection is the per-request image resolution result, with the same
// membership invariant as PackageSelection.
type ImageSelection struct {
	State      State
	Image      *catalog.Image
	Candidates []catalog.Image
}

// Request carries the routing facts the decision policy needs.
type Request struct {
	TenantID string
	Method   string
	// Route is the matched route pattern (gin FullPath), not the raw URL.
	Route string
	// ID is the value of the per-entity ":id" route parameter, if any.
	ID string
}

// Resolver applies the pre-load decision policy against the catalog
// backends. Backend errors abort resolution and propagate unchanged.
type Resolver struct {
	packages catalog.PackageClient
	images   catalog.ImageClient
	log      logrus.FieldLogger
}

// New creates a resolver over the two catalog clients.
func New(packages catalog.PackageClient, images catalog.ImageClient, log logrus.FieldLogger) *Resolver {
	return &Resolver{
		packages: packages,
		images:   images,
		log:      log.WithField("component", "resolver"),
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// ResolvePackages decides, from the matched route and method, which package
// lookup (if any) to run before the handler executes.
func (r *Resolver) ResolvePackages(ctx context.Context, req Request) (*PackageSelection, error) {
	switch {
	case req.Route == RoutePing:
		// Health probes carry no tenant scope.
		return &PackageSelection{State: Skipped}, nil

	case req.Route == RoutePackages:
		// The listing pipeline owns filtering for this path.
		return &PackageSelection{State: Skipped}, nil

	case req.Route == RoutePackage:
		return r.resolvePackageByParam(ctx, req)

	case req.Route == RouteMachines && !mutating(req.Method):
		// Bulk machine listing: machines may still reference retired
		// packages, so load everything, disabled included, with no
		// ownership filter.
		return r.loadAllPackages(ctx)

	case req.Route == RouteMachines || req.Route == RouteMachine:
		// Mutating machine actions (create, resize) may need the
		// tenant's default package when no explicit one is given.
		return r.loadDefaultPackage(ctx, req.TenantID)
	}
	return &PackageSelection{State: Skipped}, nil
}

// resolvePackageByParam handles the ":id" parameter, which may be a strict
// UUID or a mutable name.
func (r *Resolver) resolvePackageByParam(ctx context.Context, req Request) (*PackageSelection, error) {
	if _, err := uuid.Parse(req.ID); err == nil {
		pkg, err := r.packages.GetByID(ctx, req.ID, req.TenantID)
		if errors.Is(err, catalog.ErrNotFound) {
			return &PackageSelection{State: SingleResolved}, nil
		}
		if err != nil {
			return nil, err
		}
		if !pkg.Active {
			// Disabled packages are invisible to targeted lookups.
			return &PackageSelection{State: SingleResolved}, nil
		}
		return &PackageSelection{State: SingleResolved, Package: pkg}, nil
	}

	candidates, err := r.packages.List(ctx, catalog.PackageFilter{
		Name:   req.ID,
		Active: catalog.Bool(true),
	}, req.TenantID)
	if err != nil {
		return nil, err
	}
	sel := &PackageSelection{State: SingleResolved, Candidates: candidates}
	if best, ok := catalog.MaxByVersion(candidates, func(p catalog.Package) string { return p.Version }); ok {
		sel.Package = &best
	}
	return sel, nil
}

func (r *Resolver) loadAllPackages(ctx context.Context) (*PackageSelection, error) {
	active, err := r.packages.List(ctx, catalog.PackageFilter{Active: catalog.Bool(true)}, "")
	if err != nil {
		return nil, err
	}
	disabled, err := r.packages.List(ctx, catalog.PackageFilter{Active: catalog.Bool(false)}, "")
	if err != nil {
		return nil, err
	}
	return &PackageSelection{
		State:      ListResolved,
		Candidates: append(active, disabled...),
	}, nil
}

func (r *Resolver) loadDefaultPackage(ctx context.Context, tenantID string) (*PackageSelection, error) {
	candidates, err := r.packages.List(ctx, catalog.PackageFilter{Active: catalog.Bool(true)}, tenantID)
	if err != nil {
		return nil, err
	}
	sel := &PackageSelection{State: ListResolved, Candidates: candidates}

	var defaults []catalog.Package
	for _, p := range candidates {
		if p.Default {
			defaults = append(defaults, p)
		}
	}
	if best, ok := catalog.MaxByVersion(defaults, func(p catalog.Package) string { return p.Version }); ok {
		sel.Package = &best
	}
	// No default-flagged package: selection stays absent and the caller
	// must supply an explicit identifier.
	return sel, nil
}

// ResolveImages applies the same policy for images.
func (r *Resolver) ResolveImages(ctx context.Context, req Request) (*ImageSelection, error) {
	switch {
	case req.Route == RoutePing:
		return &ImageSelection{State: Skipped}, nil

	case req.Route == RouteImages || req.Route == RouteDatasets:
		return &ImageSelection{State: Skipped}, nil

	case req.Route == RouteImage || req.Route == RouteDataset || req.Route == RouteImageACL:
		return r.resolveImageByParam(ctx, req)

	case req.Route == RouteMachines && !mutating(req.Method):
		return r.loadAllImages(ctx)

	case req.Route == RouteMachines || req.Route == RouteMachine:
		return r.loadDefaultImage(ctx, req.TenantID)
	}
	return &ImageSelection{State: Skipped}, nil
}

func (r *Resolver) resolveImageByParam(ctx context.Context, req Request) (*ImageSelection, error) {
	if _, err := uuid.Parse(req.ID); err == nil {
		img, err := r.images.GetByID(ctx, req.ID, req.TenantID)
		if errors.Is(err, catalog.ErrNotFound) {
			return &ImageSelection{State: SingleResolved}, nil
		}
		if err != nil {
			return nil, err
		}
		if !img.Active {
			return &ImageSelection{State: SingleResolved}, nil
		}
		return &ImageSelection{State: SingleResolved, Image: img}, nil
	}

	candidates, err := r.images.List(ctx, catalog.ImageFilter{
		Name:   req.ID,
		Active: catalog.Bool(true),
	}, req.TenantID)
	if err != nil {
		return nil, err
	}
	sel := &ImageSelection{State: SingleResolved, Candidates: candidates}
	if best, ok := catalog.MaxByVersion(candidates, func(i catalog.Image) string { return i.Version }); ok {
		sel.Image = &best
	}
	return sel, nil
}

func (r *Resolver) loadAllImages(ctx context.Context) (*ImageSelection, error) {
	active, err := r.images.List(ctx, catalog.ImageFilter{Active: catalog.Bool(true)}, "")
	if err != nil {
		return nil, err
	}
	disabled, err := r.images.List(ctx, catalog.ImageFilter{Active: catalog.Bool(false)}, "")
	if err != nil {
		return nil, err
	}
	return &ImageSelection{
		State:      ListResolved,
		Candidates: append(active, disabled...),
	}, nil
}

func (r *Resolver) loadDefaultImage(ctx context.Context, tenantID string) (*ImageSelection, error) {
	candidates, err := r.images.List(ctx, catalog.ImageFilter{Active: catalog.Bool(true)}, tenantID)
	if err != nil {
		return nil, err
	}
	sel := &ImageSelection{State: ListResolved, Candidates: candidates}

	var defaults []catalog.Image
	for _, i := range candidates {
		if i.Default {
			defaults = append(defaults, i)
		}
	}
	if best, ok := catalog.MaxByVersion(defaults, func(i catalog.Image) string { return i.Version }); ok {
		sel.Image = &best
	}
	return sel, nil
}

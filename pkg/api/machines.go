package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratovia/cloudgate/pkg/catalog"
	"github.com/stratovia/cloudgate/pkg/machine"
	"github.com/stratovia/cloudgate/pkg/resolve"
	"github.com/stratovia/cloudgate/pkg/translate"
)

// MachineCreateRequest is the request body for POST /:account/machines.
// Package and Image accept an identifier or a name; both fall back to the
// tenant's default entity when omitted.
type MachineCreateRequest struct {
	Name    string `json:"name" binding:"required"`
	Package string `json:"package"`
	Image   string `json:"image"`
}

// MachineResizeRequest is the request body for the resize action.
type MachineResizeRequest struct {
	Package string `json:"package"`
}

// MachineResponse decorates an orchestration record with the shaped package
// and image it was provisioned from, drawn from the pre-loaded candidate
// lists (disabled entities included, so retired packages still render).
type MachineResponse struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	State   string             `json:"state"`
	Memory  int64              `json:"memory"`
	Disk    int64              `json:"disk"`
	Package *translate.Package `json:"package,omitempty"`
	Image   *translate.Image   `json:"image,omitempty"`
}

// listMachinesHandler handles GET /:account/machines.
func (s *Server) listMachinesHandler(c *gin.Context) {
	machines, err := s.machines.List(c.Request.Context(), tenantID(c))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	tr := getTranslator(c)
	psel := getPackageSelection(c)
	isel := getImageSelection(c)

	pkgByID := make(map[string]catalog.Package, len(psel.Candidates))
	for _, p := range psel.Candidates {
		pkgByID[p.ID] = p
	}
	imgByID := make(map[string]catalog.Image, len(isel.Candidates))
	for _, i := range isel.Candidates {
		imgByID[i.ID] = i
	}

	out := make([]MachineResponse, 0, len(machines))
	for _, m := range machines {
		resp := MachineResponse{
			ID:     m.ID,
			Name:   m.Name,
			State:  m.State,
			Memory: m.Memory,
			Disk:   m.Disk,
		}
		if pkg, ok := pkgByID[m.PackageID]; ok {
			shaped := tr.Package(pkg)
			resp.Package = &shaped
		}
		if img, ok := imgByID[m.ImageID]; ok {
			shaped := tr.Image(img)
			resp.Image = &shaped
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

// createMachineHandler handles POST /:account/machines. Package and image
// selection happen here, against the candidate lists the resolver loaded.
func (s *Server) createMachineHandler(c *gin.Context) {
	var req MachineCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendInvalidArgument(c, "Invalid request body: "+err.Error())
		return
	}

	pkg := pickPackage(getPackageSelection(c), req.Package)
	if pkg == nil {
		sendInvalidArgument(c, "No package specified and no default package exists")
		return
	}

	tr := getTranslator(c)
	isel := getImageSelection(c)
	var img *catalog.Image
	if req.Image != "" {
		img = resolve.SelectCurrentImage(tr.Context(), isel.Candidates, req.Image)
	} else {
		img = isel.Image
	}
	if img == nil {
		sendInvalidArgument(c, "No image specified and no default image exists")
		return
	}

	created, err := s.machines.Create(c.Request.Context(), tenantID(c), machine.CreateSpec{
		Name:      req.Name,
		PackageID: pkg.ID,
		ImageID:   img.ID,
	})
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	shapedPkg := tr.Package(*pkg)
	shapedImg := tr.Image(*img)
	c.JSON(http.StatusCreated, MachineResponse{
		ID:      created.ID,
		Name:    created.Name,
		State:   created.State,
		Memory:  created.Memory,
		Disk:    created.Disk,
		Package: &shapedPkg,
		Image:   &shapedImg,
	})
}

// machineActionHandler handles POST /:account/machines/:id?action=...
func (s *Server) machineActionHandler(c *gin.Context) {
	switch c.Query("action") {
	case "resize":
		s.resizeMachine(c)
	default:
		sendInvalidArgument(c, "Unknown or missing action")
	}
}

func (s *Server) resizeMachine(c *gin.Context) {
	// An empty or absent body is fine: resize falls back to the default
	// package the resolver selected.
	var req MachineResizeRequest
	_ = c.ShouldBindJSON(&req)

	pkg := pickPackage(getPackageSelection(c), req.Package)
	if pkg == nil {
		sendInvalidArgument(c, "No package specified and no default package exists")
		return
	}

	resized, err := s.machines.Resize(c.Request.Context(), tenantID(c), c.Param("id"), pkg.ID)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	shaped := getTranslator(c).Package(*pkg)
	c.JSON(http.StatusOK, MachineResponse{
		ID:      resized.ID,
		Name:    resized.Name,
		State:   resized.State,
		Memory:  resized.Memory,
		Disk:    resized.Disk,
		Package: &shaped,
	})
}

// pickPackage chooses the package for a mutating machine action: an explicit
// identifier or name from the request wins; otherwise the resolver's default
// selection (default-flagged, greatest version) applies. Name matches use
// the same greatest-version rule as by-name resolution.
func pickPackage(sel *resolve.PackageSelection, ident string) *catalog.Package {
	if ident == "" {
		return sel.Package
	}
	for i := range sel.Candidates {
		if sel.Candidates[i].ID == ident {
			return &sel.Candidates[i]
		}
	}
	var named []catalog.Package
	for _, p := range sel.Candidates {
		if p.Name == ident {
			named = append(named, p)
		}
	}
	if best, ok := catalog.MaxByVersion(named, func(p catalog.Package) string { return p.Version }); ok {
		return &best
	}
	return nil
}

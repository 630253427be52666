package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listPackagesHandler handles GET /:account/packages
func (s *Server) listPackagesHandler(c *gin.Context) {
	tr := getTranslator(c)

	packages, err := s.pipeline.ListPackages(c.Request.Context(), tenantID(c), c.Request.URL.Query(), tr)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, packages)
}

// getPackageHandler handles GET /:account/packages/:id. The resolver already
// ran; absence becomes a 404 here, not in the resolver.
func (s *Server) getPackageHandler(c *gin.Context) {
	sel := getPackageSelection(c)
	if sel.Package == nil {
		sendNotFound(c, "Package not found")
		return
	}
	c.JSON(http.StatusOK, getTranslator(c).Package(*sel.Package))
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listImagesHandler handles GET /:account/images and its deprecated
// /:account/datasets alias. The modern /images route does not exist on the
// legacy 6.5 track; those clients must use /datasets.
func (s *Server) listImagesHandler(c *gin.Context) {
	tr := getTranslator(c)
	if tr.Context().Legacy65 && !tr.Context().DeprecatedRoute {
		sendNotFound(c, "Resource not found")
		return
	}

	images, err := s.pipeline.ListImages(c.Request.Context(), tenantID(c), c.Request.URL.Query(), tr)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, images)
}

// getImageHandler handles GET /:account/images/:id and the datasets alias.
func (s *Server) getImageHandler(c *gin.Context) {
	tr := getTranslator(c)
	if tr.Context().Legacy65 && !tr.Context().DeprecatedRoute {
		sendNotFound(c, "Resource not found")
		return
	}

	sel := getImageSelection(c)
	if sel.Image == nil {
		sendNotFound(c, "Image not found")
		return
	}
	c.JSON(http.StatusOK, tr.Image(*sel.Image))
}

// getImageACLHandler handles GET /:account/images/:id/acl. The endpoint is
// bleeding-edge gated: when the flag is off or the account is not
// whitelisted it answers exactly like a missing resource.
func (s *Server) getImageACLHandler(c *gin.Context) {
	tr := getTranslator(c)
	if !tr.Context().BleedingEdge {
		// Same status and body as a missing image.
		sendNotFound(c, "Image not found")
		return
	}

	sel := getImageSelection(c)
	if sel.Image == nil {
		sendNotFound(c, "Image not found")
		return
	}
	acl := sel.Image.ACL
	if acl == nil {
		acl = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"acl": acl})
}

// deleteImageHandler handles DELETE /:account/images/:id. Image deletion is
// intentionally disabled; the answer is a stable NotSupported error, never a
// 404, so clients can tell "disabled" from "gone".
func (s *Server) deleteImageHandler(c *gin.Context) {
	sel := getImageSelection(c)
	if sel.Image == nil {
		sendNotFound(c, "Image not found")
		return
	}
	sendNotSupported(c, "Image deletion is not supported")
}

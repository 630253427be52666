package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratovia/cloudgate/pkg/auth"
	"github.com/stratovia/cloudgate/pkg/resolve"
	"github.com/stratovia/cloudgate/pkg/translate"
	"github.com/stratovia/cloudgate/pkg/version"
)

// APIVersionHeader is the header clients use to declare the protocol
// version they speak, as an exact version or a semver range.
const APIVersionHeader = "X-Api-Version"

// Gin context keys for per-request pre-load state.
const (
	translatorContextKey       = "cloudgate.translator"
	packageSelectionContextKey = "cloudgate.packages"
	imageSelectionContextKey   = "cloudgate.images"
)

// corsMiddleware handles Cross-Origin Resource Sharing (CORS)
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Api-Version, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Length")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// errorHandlerMiddleware maps errors recorded during resolution or listing
// to transport responses. Handlers and middleware never write error bodies
// themselves for backend failures; they record the error and abort.
func (s *Server) errorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		s.log.WithError(err).WithField("path", c.Request.URL.Path).Error("backend call failed")
		SendError(c, NewAPIError(
			http.StatusBadGateway,
			"InternalError",
			"An upstream service failed to answer",
		))
	}
}

// versionMiddleware negotiates the protocol version for the request and
// binds the translator every downstream handler uses. Runs after auth so
// the bleeding-edge whitelist can match the account login.
func (s *Server) versionMiddleware() gin.HandlerFunc {
	features := version.Features{
		BleedingEdge:          s.config.Features.BleedingEdge,
		BleedingEdgeWhitelist: s.config.Features.BleedingEdgeWhitelist,
	}
	supported := s.config.SupportedVersions()

	return func(c *gin.Context) {
		negotiated, err := version.Negotiate(c.GetHeader(APIVersionHeader), supported)
		if err != nil {
			SendError(c, NewAPIError(http.StatusBadRequest, "InvalidVersion", err.Error()))
			c.Abort()
			return
		}

		var login string
		if claims, ok := auth.GetClaims(c); ok {
			login = claims.Login
		}
		vc := version.NewContext(negotiated, features, login, isDeprecatedRoute(c.FullPath()))
		c.Set(translatorContextKey, translate.New(vc))
		c.Next()
	}
}

func isDeprecatedRoute(route string) bool {
	return route == resolve.RouteDatasets || route == resolve.RouteDataset
}

// preloadMiddleware runs the entity resolver before any route handler.
// It only populates per-request selection state; it never writes a response
// itself. A backend error aborts the request via the error handler.
func (s *Server) preloadMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.GetClaims(c)
		if !ok {
			c.Next()
			return
		}

		req := resolve.Request{
			TenantID: claims.AccountID,
			Method:   c.Request.Method,
			Route:    c.FullPath(),
			ID:       c.Param("id"),
		}

		psel, err := s.resolver.ResolvePackages(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		isel, err := s.resolver.ResolveImages(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(packageSelectionContextKey, psel)
		c.Set(imageSelectionContextKey, isel)
		c.Next()
	}
}

func getTranslator(c *gin.Context) *translate.Translator {
	return c.MustGet(translatorContextKey).(*translate.Translator)
}

func getPackageSelection(c *gin.Context) *resolve.PackageSelection {
	return c.MustGet(packageSelectionContextKey).(*resolve.PackageSelection)
}

func getImageSelection(c *gin.Context) *resolve.ImageSelection {
	return c.MustGet(imageSelectionContextKey).(*resolve.ImageSelection)
}

func tenantID(c *gin.Context) string {
	claims, _ := auth.GetClaims(c)
	if claims == nil {
		return ""
	}
	return claims.AccountID
}

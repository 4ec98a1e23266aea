package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborline/harborline/internal/server/handlers/contact"
	"github.com/harborline/harborline/internal/server/handlers/files"
	"github.com/harborline/harborline/internal/server/handlers/gallery"
	"github.com/harborline/harborline/internal/server/handlers/locations"
	"github.com/harborline/harborline/internal/server/handlers/messages"
	"github.com/harborline/harborline/internal/server/handlers/pages"
	"github.com/harborline/harborline/internal/server/handlers/schedule"
	"github.com/harborline/harborline/internal/server/handlers/services"
	"github.com/harborline/harborline/internal/server/middlewares"
	"github.com/harborline/harborline/internal/version"
)

func SetupRoutes(config *Config, svc *Services) http.Handler {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20 // 8 MiB

	maxUpload := config.HTTP.MaxUploadSize
	uploadsFilesH := files.New(svc.Uploads)
	servicesFilesH := files.New(svc.ServiceImages)
	galleryH := gallery.New(svc.Media, svc.Content, svc.Uploads, maxUpload)
	pagesH := pages.New(svc.Media, svc.Content, svc.Uploads, maxUpload)
	scheduleH := schedule.New(svc.Media, svc.Content, svc.Uploads, maxUpload)
	servicesH := services.New(svc.Media, svc.Content, svc.ServiceImages, maxUpload)
	locationsH := locations.New(svc.Content, svc.Geo)
	contactH := contact.New(svc.Content, svc.Email)
	messagesH := messages.New(svc.Content)

	r.Use(middlewares.Logger())
	r.Use(gin.Recovery())
	r.Use(middlewares.GZIP())
	r.Use(middlewares.CORS())

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)

	// stored file retrieval, one route per bucket
	r.GET("/files/:id", uploadsFilesH.Download)
	r.GET("/files/services/:id", servicesFilesH.Download)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/pages", pagesH.List)
		v1.GET("/pages/:slug", pagesH.Get)
		v1.GET("/gallery", galleryH.List)
		v1.GET("/services", servicesH.List)
		v1.GET("/services/:id", servicesH.Get)
		v1.GET("/locations", locationsH.List)
		v1.GET("/schedule", scheduleH.Get)

		v1.POST("/contact", middlewares.RateLimiter(config.Contact.RateLimit), contactH.Submit)
	}

	admin := r.Group("/api/v1/admin", middlewares.JWTAuth(svc.Auth), maxBodySize(maxUpload))
	{
		admin.POST("/gallery", galleryH.Create)
		admin.PUT("/gallery/:id", galleryH.Rename)
		admin.PUT("/gallery/:id/image", galleryH.ReplaceImage)
		admin.DELETE("/gallery/:id", galleryH.Delete)

		admin.POST("/pages", pagesH.Create)
		admin.PUT("/pages/:slug", pagesH.Update)
		admin.PUT("/pages/:slug/sections/:index/image", pagesH.ReplaceSectionImage)

		admin.PUT("/schedule", scheduleH.Replace)
		admin.DELETE("/schedule", scheduleH.Delete)

		admin.POST("/services", servicesH.Create)
		admin.PUT("/services/:id", servicesH.Update)
		admin.PUT("/services/:id/image", servicesH.ReplaceImage)
		admin.DELETE("/services/:id", servicesH.Delete)

		admin.POST("/locations", locationsH.Create)
		admin.PUT("/locations/:id", locationsH.Update)
		admin.DELETE("/locations/:id", locationsH.Delete)

		admin.GET("/messages", messagesH.List)
		admin.DELETE("/messages/:id", messagesH.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	})

	return r.Handler()
}

// maxBodySize caps the request body so an oversized upload fails during the
// multipart read instead of filling the disk. Some slack is left on top of
// the file ceiling for the other form fields.
func maxBodySize(limit int64) gin.HandlerFunc {
	const formSlack = 1 << 20
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formSlack)
		c.Next()
	}
}

func IndexHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, version.Banner())
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

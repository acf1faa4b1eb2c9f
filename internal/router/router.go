package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/kilbil-1980/kilbil-school-api/internal/handler"
	"github.com/kilbil-1980/kilbil-school-api/internal/middleware"
	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	"github.com/kilbil-1980/kilbil-school-api/internal/repository"
	"github.com/kilbil-1980/kilbil-school-api/internal/service"
	"github.com/kilbil-1980/kilbil-school-api/pkg/config"
	"github.com/kilbil-1980/kilbil-school-api/pkg/logger"
	corsmiddleware "github.com/kilbil-1980/kilbil-school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kilbil-1980/kilbil-school-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Admissions    *handler.AdmissionHandler
	Auth          *handler.AuthHandler
	Announcements *handler.AnnouncementHandler
	Faculty       *handler.FacultyHandler
	Timetables    *handler.TimetableHandler
	Gallery       *handler.GalleryHandler
	Facilities    *handler.FacilityHandler
	Testimonials  *handler.TestimonialHandler
	Careers       *handler.CareerHandler
	Metrics       *handler.MetricsHandler
}

// Deps carries the cross-cutting pieces the router needs besides handlers.
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	AuthService *service.AuthService
	Metrics     *service.MetricsService
	Users       *repository.UserRepository
}

// New assembles the gin engine with all middleware and routes.
func New(h Handlers, deps Deps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", h.Metrics.Health)
	if deps.Config.Metrics.Enabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authRequired := middleware.JWT(deps.AuthService)
	authOptional := middleware.OptionalJWT(deps.AuthService)
	adminOnly := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	api := r.Group(deps.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/change-password", authRequired, h.Auth.ChangePassword)
	}

	admissions := api.Group("/admissions")
	{
		// Submission is the one public admission route; everything else
		// handles applicant PII and stays behind the admin gate.
		admissions.POST("", h.Admissions.Create)

		admissions.GET("", authRequired, adminOnly, h.Admissions.List)
		admissions.GET("/download-all", authRequired, adminOnly, h.Admissions.DownloadAll)
		admissions.GET("/export-csv", authRequired, adminOnly, h.Admissions.ExportCSV)
		admissions.GET("/:id", authRequired, adminOnly, h.Admissions.Get)
		admissions.GET("/:id/download", authRequired, adminOnly, h.Admissions.Download)
		admissions.DELETE("/clear-all", authRequired, adminOnly,
			middleware.Audit(deps.Users, models.AuditActionAdmissionDelete, "admission"), h.Admissions.DeleteAll)
		admissions.DELETE("/:id", authRequired, adminOnly, h.Admissions.Delete)
	}

	registerContent(api, "/announcements", contentHandlers{
		list: h.Announcements.List, get: h.Announcements.Get,
		create: h.Announcements.Create, update: h.Announcements.Update, del: h.Announcements.Delete,
	}, authRequired, adminOnly)
	registerContent(api, "/faculty", contentHandlers{
		list: h.Faculty.List, get: h.Faculty.Get,
		create: h.Faculty.Create, update: h.Faculty.Update, del: h.Faculty.Delete,
	}, authRequired, adminOnly)
	registerContent(api, "/timetables", contentHandlers{
		list: h.Timetables.List, get: h.Timetables.Get,
		create: h.Timetables.Create, update: h.Timetables.Update, del: h.Timetables.Delete,
	}, authRequired, adminOnly)
	registerContent(api, "/gallery", contentHandlers{
		list: h.Gallery.List, get: h.Gallery.Get,
		create: h.Gallery.Create, update: h.Gallery.Update, del: h.Gallery.Delete,
	}, authRequired, adminOnly)
	registerContent(api, "/facilities", contentHandlers{
		list: h.Facilities.List, get: h.Facilities.Get,
		create: h.Facilities.Create, update: h.Facilities.Update, del: h.Facilities.Delete,
	}, authRequired, adminOnly)
	// Admins see unapproved testimonials and closed positions on the same
	// public listing routes.
	registerContent(api, "/testimonials", contentHandlers{
		list: h.Testimonials.List, get: h.Testimonials.Get, listGuard: authOptional,
		create: h.Testimonials.Create, update: h.Testimonials.Update, del: h.Testimonials.Delete,
	}, authRequired, adminOnly)
	registerContent(api, "/careers", contentHandlers{
		list: h.Careers.List, get: h.Careers.Get, listGuard: authOptional,
		create: h.Careers.Create, update: h.Careers.Update, del: h.Careers.Delete,
	}, authRequired, adminOnly)

	return r
}

type contentHandlers struct {
	list      gin.HandlerFunc
	listGuard gin.HandlerFunc
	get       gin.HandlerFunc
	create    gin.HandlerFunc
	update    gin.HandlerFunc
	del       gin.HandlerFunc
}

// registerContent mounts the shared content route shape: public reads,
// admin-gated mutations.
func registerContent(api *gin.RouterGroup, path string, h contentHandlers, authRequired, adminOnly gin.HandlerFunc) {
	group := api.Group(path)
	if h.listGuard != nil {
		group.GET("", h.listGuard, h.list)
	} else {
		group.GET("", h.list)
	}
	group.GET("/:id", h.get)
	group.POST("", authRequired, adminOnly, h.create)
	group.PUT("/:id", authRequired, adminOnly, h.update)
	group.DELETE("/:id", authRequired, adminOnly, h.del)
}

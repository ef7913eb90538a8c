package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"portfolio-backend-go/internal/config"
	"portfolio-backend-go/internal/models"
	"portfolio-backend-go/internal/services"
	"portfolio-backend-go/internal/storage"
)

type Server struct {
	Store      storage.Storage
	Config     config.Config
	Tokens     services.TokenService
	Validator  *services.Validator
	Deliverer  services.ContactDeliverer
	Log        *zap.Logger
	Cache      *ResponseCache
	MetricsHub *services.MetricsHub
	History    *services.MetricsHistory

	proxies        proxyList
	contactLimiter *ipLimiter
}

func NewServer(store storage.Storage, cfg config.Config, log *zap.Logger, deliverer services.ContactDeliverer, hub *services.MetricsHub, history *services.MetricsHistory) *Server {
	tokens := services.TokenService{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
		AccessTTL: cfg.AccessTTL(),
	}
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	proxies, err := newProxyList(cfg.TrustedProxies)
	if err != nil {
		log.Warn("TRUSTED_PROXIES ignored; X-Forwarded-For will not be read", zap.Error(err))
	}
	return &Server{
		Store:          store,
		Config:         cfg,
		Tokens:         tokens,
		Validator:      services.NewValidator(),
		Deliverer:      deliverer,
		Log:            log,
		Cache:          NewResponseCache(ttl),
		MetricsHub:     hub,
		History:        history,
		proxies:        proxies,
		contactLimiter: newIPLimiter(cfg.ContactRatePerMinute, proxies.clientIP),
	}
}

func (s *Server) Router(ctx context.Context) http.Handler {
	go s.contactLimiter.run(ctx)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.Log))
	r.Use(Recoverer(s.Log))
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(WithSession(s.Tokens))

	r.Get("/healthz", s.Liveness)
	r.Get("/readyz", s.Readiness)

	r.Route("/api", func(api chi.Router) {
		api.Post("/login", s.Login)
		api.Post("/logout", s.Logout)
		api.With(RequireAuth).Get("/user", s.CurrentUser)
		api.With(s.contactLimiter.Middleware).Post("/contact", s.SendContactMessage)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(RequireAdmin)
			admin.Get("/metrics/history", s.MetricsHistory)
		})

		api.Group(func(content chi.Router) {
			content.Use(s.Cache.Middleware)
			s.mountContent(content)
		})
	})

	r.Get("/ws/metrics", s.MetricsSocket)
	return r
}

func (s *Server) mountContent(api chi.Router) {
	api.Route("/settings", singletonResource[models.PortfolioSettings, models.PortfolioSettingsPatch]{
		s: s, label: "settings", store: s.Store.Settings(),
	}.mount)
	api.Route("/about", singletonResource[models.AboutContent, models.AboutContentPatch]{
		s: s, label: "about content", store: s.Store.About(),
	}.mount)
	api.Route("/contact-info", singletonResource[models.ContactInfo, models.ContactInfoPatch]{
		s: s, label: "contact info", store: s.Store.ContactInfo(),
	}.mount)

	categories := newResource[models.SkillCategory, models.SkillCategoryInput, models.SkillCategoryPatch](
		s, "Skill category", "skill category", "skill categories", s.Store.SkillCategories())
	api.Route("/skill-categories", func(r chi.Router) {
		categories.mount(r)
		r.With(RequireAdmin).Post("/reorder", reorder(categories, s.Store.SkillCategories(), "ids"))
	})

	skills := skillsResource{
		resource: newResource[models.Skill, models.SkillInput, models.SkillPatch](
			s, "Skill", "skill", "skills", s.Store.Skills()),
		skills: s.Store.Skills(),
	}
	api.Route("/skills", func(r chi.Router) {
		r.Get("/", skills.List)
		r.Get("/{id}", skills.Get)
		r.With(RequireAdmin).Post("/", skills.Create)
		r.With(RequireAdmin).Put("/{id}", skills.Update)
		r.With(RequireAdmin).Delete("/{id}", skills.Delete)
	})

	education := newResource[models.Education, models.EducationInput, models.EducationPatch](
		s, "Education", "education", "education", s.Store.Education())
	api.Route("/education", func(r chi.Router) {
		education.mount(r)
		r.With(RequireAdmin).Post("/reorder", reorder(education, s.Store.Education(), "ids"))
	})

	experience := newResource[models.Experience, models.ExperienceInput, models.ExperiencePatch](
		s, "Experience", "experience", "experience", s.Store.Experience())
	api.Route("/experience", func(r chi.Router) {
		experience.mount(r)
		r.With(RequireAdmin).Post("/reorder", reorder(experience, s.Store.Experience(), "ids"))
	})

	projects := newResource[models.Project, models.ProjectInput, models.ProjectPatch](
		s, "Project", "project", "projects", s.Store.Projects())
	api.Route("/projects", func(r chi.Router) {
		projects.mount(r)
		r.With(RequireAdmin).Post("/reorder", reorder(projects, s.Store.Projects(), "projectIds"))
	})

	openSource := newResource[models.OpenSourceContribution, models.OpenSourceContributionInput, models.OpenSourceContributionPatch](
		s, "Open source contribution", "open source contribution", "open source contributions", s.Store.OpenSource())
	api.Route("/open-source", func(r chi.Router) {
		openSource.mount(r)
		r.With(RequireAdmin).Post("/reorder", reorder(openSource, s.Store.OpenSource(), "ids"))
	})
}

func (s *Server) logError(r *http.Request, msg string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r.Context())),
	)
	s.Log.Error(msg, fields...)
}

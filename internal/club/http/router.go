package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/topcarsvalley/clubd/internal/club/service"
	"github.com/topcarsvalley/clubd/internal/club/store"
	"github.com/topcarsvalley/clubd/pkg/httpx"
	"github.com/topcarsvalley/clubd/pkg/jwtx"
	"github.com/topcarsvalley/clubd/pkg/slogx"

	_ "github.com/topcarsvalley/clubd/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	SessionService   *service.SessionService
	InviteService    *service.InviteService
	IdentityService  *service.IdentityService
	BootstrapService *service.BootstrapService
	EventService     *service.EventService
	VehicleService   *service.VehicleService
	PartnerService   *service.PartnerService
	ContactService   *service.ContactService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerInvites()
	r.registerMe()
	r.registerIdentities()
	r.registerEvents()
	r.registerVehicles()
	r.registerPartners()
	r.registerContacts()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TopCars Valley Club API
//	@version		0.1.0
//	@description	Membership service for the TopCars Valley club: invite-based onboarding, sessions, events with RSVPs, member garages, partner workshops, and the public contact form.
//	@description
//	@description				Session tokens are signed with EdDSA and can be verified against the JWKS endpoint.
//
//	@contact.name				TopCars Valley
//	@contact.url				https://github.com/topcarsvalley/clubd
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	h := &SessionsHandler{SessionService: r.SessionService}

	// POST /sessions - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{InviteService: r.InviteService}

	// POST /invites - admin-only mint, moderate limit by identity
	securedIssue := httpx.Chain(http.HandlerFunc(h.HandleIssue),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("ADMIN"),
		httpx.RateLimitByIdentity(httpx.ModerateLimit),
	)
	r.Mux.Handle("POST /v1/invites", securedIssue)

	// GET /invites/validate - public, the onboarding form polls this
	r.Mux.Handle("GET /v1/invites/validate",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /invites/redeem - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/invites/redeem",
		httpx.Chain(http.HandlerFunc(h.HandleRedeem),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /identities/{id}/resend-invite - admin-only
	securedResend := httpx.Chain(http.HandlerFunc(h.HandleResend),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("ADMIN"),
		httpx.RateLimitByIdentity(httpx.ModerateLimit),
	)
	r.Mux.Handle("POST /v1/identities/{id}/resend-invite", securedResend)
}

func (r *Router) registerMe() {
	h := &MeHandler{IdentityService: r.IdentityService}

	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByIdentity(httpx.LenientLimit),
	)
	securedUpdate := httpx.Chain(http.HandlerFunc(h.HandleUpdateProfile),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByIdentity(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/me", securedGet)
	r.Mux.Handle("PUT /v1/me/profile", securedUpdate)
}

func (r *Router) registerIdentities() {
	h := &IdentitiesHandler{IdentityService: r.IdentityService}

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("ADMIN"),
		httpx.RateLimitByIdentity(httpx.ModerateLimit),
	)
	securedSetActive := httpx.Chain(http.HandlerFunc(h.HandleSetActive),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("ADMIN"),
		httpx.RateLimitByIdentity(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/identities", securedList)
	r.Mux.Handle("PATCH /v1/identities/{id}/active", securedSetActive)
}

func (r *Router) registerEvents() {
	h := &EventsHandler{EventService: r.EventService}

	member := func(next http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(limit),
		)
	}
	admin := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("ADMIN"),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/events", member(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/events/{id}", member(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/events/{id}/rsvp", member(h.HandleRSVP, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/events/{id}/rsvps", member(h.HandleListRSVPs, httpx.LenientLimit))

	r.Mux.Handle("POST /v1/events", admin(h.HandleCreate))
	r.Mux.Handle("PUT /v1/events/{id}", admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/events/{id}", admin(h.HandleDelete))
}

func (r *Router) registerVehicles() {
	h := &VehiclesHandler{VehicleService: r.VehicleService}

	member := func(next http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIdentity(limit),
		)
	}

	r.Mux.Handle("GET /v1/vehicles", member(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/vehicles", member(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/vehicles/{id}", member(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/vehicles/{id}", member(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/vehicles/{id}", member(h.HandleDelete, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/vehicles/{id}/photo", member(h.HandleUploadPhoto, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/vehicles/{id}/photo", member(h.HandleGetPhoto, httpx.LenientLimit))
}

func (r *Router) registerPartners() {
	h := &PartnersHandler{PartnerService: r.PartnerService}

	// The partner directory is the one catalogue shown on the public site.
	r.Mux.Handle("GET /v1/partners",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	admin := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("ADMIN"),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/partners", admin(h.HandleCreate))
	r.Mux.Handle("PUT /v1/partners/{id}", admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/partners/{id}", admin(h.HandleDelete))
}

func (r *Router) registerContacts() {
	h := &ContactsHandler{ContactService: r.ContactService}

	// POST /contact - strict rate limit by IP (public, spam magnet)
	r.Mux.Handle("POST /v1/contact",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	admin := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("ADMIN"),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/contact-requests", admin(h.HandleList))
	r.Mux.Handle("POST /v1/contact-requests/{id}/approve", admin(h.HandleApprove))
	r.Mux.Handle("POST /v1/contact-requests/{id}/reject", admin(h.HandleReject))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

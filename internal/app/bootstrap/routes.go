// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	chatroomsfeature "github.com/communehq/commune/internal/app/features/chatrooms"
	crmfeature "github.com/communehq/commune/internal/app/features/crm"
	healthfeature "github.com/communehq/commune/internal/app/features/health"
	loginfeature "github.com/communehq/commune/internal/app/features/login"
	logoutfeature "github.com/communehq/commune/internal/app/features/logout"
	membersfeature "github.com/communehq/commune/internal/app/features/members"
	messagesfeature "github.com/communehq/commune/internal/app/features/messages"
	organizationsfeature "github.com/communehq/commune/internal/app/features/organizations"
	pagesfeature "github.com/communehq/commune/internal/app/features/pages"
	registerfeature "github.com/communehq/commune/internal/app/features/register"
	tasksfeature "github.com/communehq/commune/internal/app/features/tasks"
	userinfofeature "github.com/communehq/commune/internal/app/features/userinfo"
	chatroomstore "github.com/communehq/commune/internal/app/store/chatrooms"
	contactstore "github.com/communehq/commune/internal/app/store/contacts"
	labelstore "github.com/communehq/commune/internal/app/store/labels"
	membershipstore "github.com/communehq/commune/internal/app/store/memberships"
	messagestore "github.com/communehq/commune/internal/app/store/messages"
	orgstore "github.com/communehq/commune/internal/app/store/organizations"
	taskstore "github.com/communehq/commune/internal/app/store/tasks"
	userstore "github.com/communehq/commune/internal/app/store/users"
	"github.com/communehq/commune/internal/app/system/auth"
	"github.com/communehq/commune/internal/app/system/gates"
	"github.com/communehq/commune/internal/app/system/guard"
	"github.com/communehq/commune/internal/app/system/token"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// The session pipeline assembles here: token service from the validated
// signing secret, session manager over the cookie, gate over the membership
// resolver, and the route guard wrapped around the whole router so page
// requests are screened before any handler runs.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.CommuneMongoDatabase

	tokens, err := token.New(appCfg.AuthSecret, appCfg.AuthTokenTTL, logger)
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}

	secure := coreCfg.Env == "prod"
	sessionMgr := auth.NewSessionManager(tokens, appCfg.AuthCookie, secure, logger)

	users := userstore.New(db)
	orgs := orgstore.New(db)
	memberships := membershipstore.New(db)
	labels := labelstore.New(db)
	chatrooms := chatroomstore.New(db)
	messages := messagestore.New(db)
	contacts := contactstore.New(db)
	tasks := taskstore.New(db)

	gate := gates.New(sessionMgr, memberships, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CommuneMongoClient, logger)
	r.Get("/health", healthHandler.Serve)

	// Authentication
	registerHandler := registerfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/api/register", registerfeature.Routes(registerHandler))

	loginHandler := loginfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/api/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/api/logout", logoutfeature.Routes(logoutHandler))

	userinfoHandler := userinfofeature.NewHandler(users, logger)
	r.Mount("/api/user", userinfofeature.Routes(userinfoHandler, sessionMgr))

	// Organizations and nested org-scoped surfaces
	orgHandler := organizationsfeature.NewHandler(organizationsfeature.Stores{
		Orgs:        orgs,
		Memberships: memberships,
		Labels:      labels,
		Users:       users,
		Chatrooms:   chatrooms,
		Messages:    messages,
		Contacts:    contacts,
		Tasks:       tasks,
	}, gate, logger)
	r.Mount("/api/organizations", organizationsfeature.Routes(orgHandler, sessionMgr))

	membersHandler := membersfeature.NewHandler(orgs, memberships, labels, users, gate, logger)
	r.Mount("/api/organizations/{orgID}/members", membersfeature.Routes(membersHandler, sessionMgr))

	chatroomsHandler := chatroomsfeature.NewHandler(chatrooms, labels, messages, gate, logger)
	r.Mount("/api/organizations/{orgID}/chatrooms", chatroomsfeature.Routes(chatroomsHandler, sessionMgr))

	crmHandler := crmfeature.NewHandler(contacts, gate, logger)
	r.Mount("/api/organizations/{orgID}/crm", crmfeature.Routes(crmHandler, sessionMgr))

	tasksHandler := tasksfeature.NewHandler(tasks, memberships, gate, logger)
	r.Mount("/api/organizations/{orgID}/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	messagesHandler := messagesfeature.NewHandler(chatrooms, messages, gate, logger)
	r.Mount("/api/chatrooms/{chatroomID}/messages", messagesfeature.Routes(messagesHandler, sessionMgr))

	// Guarded page shells
	pagesHandler := pagesfeature.NewHandler(orgs, logger)
	r.Mount("/", pagesfeature.Routes(pagesHandler))

	// The guard screens /dashboard and /organization/* before the router
	// sees the request.
	routeGuard := guard.New(sessionMgr, memberships, nil, logger)
	return routeGuard.Middleware(r), nil
}

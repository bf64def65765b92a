package rest

import (
	"context"
	"net/http"
	"time"

	"schuldenfrei/internal/aggregate"
	"schuldenfrei/internal/domain"
	"schuldenfrei/internal/letter"
	"schuldenfrei/internal/logger"
	"schuldenfrei/internal/service"
	"schuldenfrei/internal/transport/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateName(ctx context.Context, userID, name string) (*domain.Profile, error)
	Dashboard(ctx context.Context, userID string) (*service.Dashboard, error)
}

type DebtService interface {
	List(ctx context.Context, userID string, filter aggregate.ListFilter, category aggregate.Category) (*service.DebtList, error)
	Get(ctx context.Context, userID, id string) (*service.DebtDetail, error)
	Create(ctx context.Context, userID string, in domain.DebtInsert) (*aggregate.DebtView, error)
	Update(ctx context.Context, userID, id string, u domain.DebtUpdate) (*aggregate.DebtView, error)
	Delete(ctx context.Context, userID, id string) error
}

type PaymentService interface {
	List(ctx context.Context, userID string, debtID *string) ([]domain.Payment, error)
	Create(ctx context.Context, userID string, in domain.PaymentInsert) (*domain.Payment, error)
	Delete(ctx context.Context, userID, id string) error
	Timeline(ctx context.Context, userID string) (*service.Timeline, error)
}

type AgreementService interface {
	List(ctx context.Context, userID string, debtID *string) ([]domain.Agreement, error)
	Templates() []letter.Template
	Create(ctx context.Context, userID string, in service.CreateAgreementInput) (*service.AgreementResult, error)
	Render(doc letter.Document) ([]byte, error)
}

type BudgetService interface {
	List(ctx context.Context, kind domain.BudgetKind, userID string) ([]domain.BudgetEntry, error)
	Create(ctx context.Context, kind domain.BudgetKind, userID string, in domain.BudgetEntryInsert) (*domain.BudgetEntry, error)
	Delete(ctx context.Context, kind domain.BudgetKind, userID, id string) error
	Summary(ctx context.Context, userID string) (*aggregate.BudgetSummary, error)
}

type ExportService interface {
	StartOverview(ctx context.Context, userID string, scope service.Scope) (string, error)
	List(ctx context.Context, owner string) ([]service.ExportView, error)
	Get(ctx context.Context, owner, key string) (*service.ExportView, error)
}

type AdminService interface {
	Search(ctx context.Context, q string) ([]domain.Profile, error)
	Overview(ctx context.Context) (*service.AdminOverview, error)
	Customer(ctx context.Context, userID string) (*service.CustomerData, error)
	SetPlan(ctx context.Context, userID string, plan domain.Plan, premiumUntil *domain.Date) error
	ExportData(ctx context.Context, userID string) (*service.CustomerExport, error)
	ExportXLSX(ctx context.Context, userID string) (string, error)
}

// FileServer hands out locally stored export files.
type FileServer interface {
	Open(fileName string) (path string, original string, err error)
}

type WebSocketHandler interface {
	HandleWebSocket(w http.ResponseWriter, r *http.Request, owner string)
}

type Services struct {
	Profiles   ProfileService
	Debts      DebtService
	Payments   PaymentService
	Agreements AgreementService
	Budget     BudgetService
	Exports    ExportService
	Admin      AdminService
}

type Handler struct {
	Services

	files        FileServer
	ws           WebSocketHandler
	adminAuth    *auth.AdminAuth
	loginLimiter *auth.RateLimiter
	log          *logger.Logger
	now          func() time.Time
}

// NewHandler wires the routes. files may be nil when exports go to object
// storage; loginLimiter may be nil to disable login throttling.
func NewHandler(
	services Services,
	files FileServer,
	ws WebSocketHandler,
	adminAuth *auth.AdminAuth,
	loginLimiter *auth.RateLimiter,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		Services:     services,
		files:        files,
		ws:           ws,
		adminAuth:    adminAuth,
		loginLimiter: loginLimiter,
		log:          log.WithComponent("http"),
		now:          time.Now,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	return h.InitRouterWithAuth(nil)
}

func (h *Handler) InitRouterWithAuth(authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/health", h.health)

	if h.files != nil {
		r.Get("/files/{file}", h.downloadFile)
	}

	r.Route("/admin", func(r chi.Router) {
		login := r.With()
		if h.loginLimiter != nil {
			login = r.With(auth.RateLimit(h.loginLimiter))
		}
		login.Post("/login", h.adminLogin)
		r.Post("/logout", h.adminLogout)

		r.Group(func(r chi.Router) {
			r.Use(h.adminAuth.Middleware)

			r.Get("/ws", h.adminWebSocket)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(60 * time.Second))

				r.Get("/search", h.adminSearch)
				r.Get("/overview", h.adminOverview)
				r.Get("/customer", h.adminCustomer)
				r.Post("/actions", h.adminAction)
				r.Get("/export", h.adminListExports)
				r.Get("/export/{export_id}", h.adminGetExport)
			})
		})
	})

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		r.Get("/ws", h.userWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/dashboard", h.dashboard)
			r.Get("/profile", h.getProfile)
			r.Patch("/profile", h.updateProfile)

			r.Route("/debts", func(r chi.Router) {
				r.Get("/", h.listDebts)
				r.Post("/", h.createDebt)
				r.Get("/{id}", h.getDebt)
				r.Patch("/{id}", h.updateDebt)
				r.Delete("/{id}", h.deleteDebt)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", h.listPayments)
				r.Post("/", h.createPayment)
				r.Delete("/{id}", h.deletePayment)
			})
			r.Get("/timeline", h.timeline)

			r.Route("/agreements", func(r chi.Router) {
				r.Get("/", h.listAgreements)
				r.Post("/", h.createAgreement)
				r.Get("/templates", h.listTemplates)
			})
			r.Post("/letters/render", h.renderLetter)

			r.Route("/budget", func(r chi.Router) {
				r.Get("/", h.budgetSummary)
				for path, kind := range map[string]domain.BudgetKind{
					"/expenses": domain.BudgetExpense,
					"/incomes":  domain.BudgetIncome,
				} {
					r.Get(path, h.listBudget(kind))
					r.Post(path, h.createBudget(kind))
					r.Delete(path+"/{id}", h.deleteBudget(kind))
				}
			})

			r.Route("/export", func(r chi.Router) {
				r.Get("/", h.listExports)
				r.Post("/overview", h.exportOverview)
				r.Get("/{export_id}", h.getExport)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	Success(w, "ok", map[string]string{"time": h.now().UTC().Format(time.RFC3339)})
}

// userID writes a 401 when the request carries no user.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := auth.GetUserID(r.Context())
	if err != nil {
		ErrorUnauthorized(w, "Nicht autorisiert.")
		return "", false
	}
	return userID, true
}

func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

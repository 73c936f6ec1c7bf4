package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"foodorder/internal/mw"
)

type MealStore interface {
	MealLister
	MealEditor
}

type OrderStore interface {
	OrderPlacer
	OrderAdmin
}

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Logger    *slog.Logger
	Tokens    mw.TokenValidator
	Admins    mw.AdminLookup
	Auth      Authenticator
	Meals     MealStore
	Orders    OrderStore
	Users     UserLister
	Analytics AnalyticsSource
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(answerOptions)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	authenticated := mw.Chain(mw.Authenticate(d.Tokens))
	admin := mw.Chain(mw.Authenticate(d.Tokens), mw.RequireAdmin(d.Admins))

	r.Get("/health", HealthHandler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", SignupHandler(d.Auth))
		r.Post("/login", LoginHandler(d.Auth))
		r.With(authenticated).Get("/verify", VerifyHandler(d.Auth))
	})

	r.Get("/meals", MealsHandler(d.Meals))

	r.Group(func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/orders", CreateOrderHandler(d.Orders))
		r.Get("/orders", ListOrdersHandler(d.Orders))
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(authenticated).Get("/check", AdminCheckHandler(d.Admins))

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/meals", CreateMealHandler(d.Meals))
			r.Put("/meals/{id}", UpdateMealHandler(d.Meals))
			r.Delete("/meals/{id}", DeleteMealHandler(d.Meals))
			r.Get("/orders", AdminOrdersHandler(d.Orders))
			r.Put("/orders/{id}", UpdateOrderStatusHandler(d.Orders))
			r.Get("/users", AdminUsersHandler(d.Users))
			r.Get("/analytics", AnalyticsHandler(d.Analytics))
		})
	})

	return r
}

// answerOptions replies 200 to every OPTIONS request, preflight or not.
func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Not found")
}

package router

import (
	"context"
	"net/http"
	"time"

	"bazar-backend/internal/config"
	"bazar-backend/internal/handlers"
	"bazar-backend/internal/middleware"
	"bazar-backend/internal/services"
	"bazar-backend/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const healthTimeout = 2 * time.Second

func SetupRouter(st store.Store, mailer services.Mailer, images services.ImageStore, cfg *config.Config, logger zerolog.Logger) *mux.Router {
	hasher := services.NewBcryptHasher()
	authService := services.NewAuthService(cfg.JWTSecret, logger)

	clientService := services.NewClientService(st.Clients(), hasher, authService, cfg, logger)
	resetService := services.NewResetService(st.Clients(), hasher, mailer, cfg, logger)
	favoritesService := services.NewFavoritesService(st.Clients(), st.Products(), logger)
	userService := services.NewUserService(st.Users(), hasher, authService, cfg, logger)
	productService := services.NewProductService(st.Products(), st.Clients(), images, logger)
	saleService := services.NewSaleService(st.Sales(), st.Clients(), st.Products(), logger)

	authHandler := handlers.NewAuthHandler(userService, logger)
	clientHandler := handlers.NewClientHandler(clientService, resetService, logger)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	productHandler := handlers.NewProductHandler(productService, logger)
	saleHandler := handlers.NewSaleHandler(saleService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequestValidation("application/json", "multipart/form-data"))

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	clients := api.PathPrefix("/clients").Subrouter()
	clients.HandleFunc("", clientHandler.CreateClient).Methods("POST")
	clients.HandleFunc("", clientHandler.GetClients).Methods("GET")
	clients.HandleFunc("/login", clientHandler.Login).Methods("POST")
	clients.HandleFunc("/check-email-client", clientHandler.CheckEmail).Methods("POST")
	clients.HandleFunc("/forgot-password", clientHandler.ForgotPassword).Methods("POST")
	clients.HandleFunc("/reset-password/{token}", clientHandler.ResetPassword).Methods("POST")

	favorites := clients.PathPrefix("/favorites").Subrouter()
	favorites.Use(middleware.Authentication(authService, logger))
	favorites.HandleFunc("", favoritesHandler.GetFavorites).Methods("GET")
	favorites.HandleFunc("/add", favoritesHandler.AddFavorite).Methods("POST")
	favorites.HandleFunc("/remove", favoritesHandler.RemoveFavorite).Methods("POST")
	favorites.HandleFunc("/{productId}", favoritesHandler.CheckFavorite).Methods("GET")

	clients.HandleFunc("/{id}", clientHandler.GetClient).Methods("GET")
	clients.HandleFunc("/{id}", clientHandler.UpdateClient).Methods("PUT")
	clients.HandleFunc("/{id}", clientHandler.DeleteClient).Methods("DELETE")

	products := api.PathPrefix("/products").Subrouter()
	products.Use(middleware.OptionalAuthentication(authService, logger))
	products.HandleFunc("", productHandler.CreateProduct).Methods("POST")
	products.HandleFunc("", productHandler.GetProducts).Methods("GET")
	products.HandleFunc("/{id}", productHandler.GetProduct).Methods("GET")
	products.HandleFunc("/{id}", productHandler.UpdateProduct).Methods("PUT")
	products.HandleFunc("/{id}", productHandler.DeleteProduct).Methods("DELETE")

	sales := api.PathPrefix("/sales").Subrouter()
	sales.HandleFunc("", saleHandler.CreateSale).Methods("POST")
	sales.HandleFunc("", saleHandler.GetSales).Methods("GET")
	sales.HandleFunc("/{id}", saleHandler.GetSale).Methods("GET")
	sales.HandleFunc("/{id}", saleHandler.UpdateSale).Methods("PUT")
	sales.HandleFunc("/{id}", saleHandler.DeleteSale).Methods("DELETE")

	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("", userHandler.CreateUser).Methods("POST")
	users.HandleFunc("", userHandler.GetUsers).Methods("GET")
	users.HandleFunc("/authenticate", userHandler.Authenticate).Methods("POST")
	users.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	users.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")
	users.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := st.Ping(ctx); err != nil {
			logger.Error().Err(err).Msg("Health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// mux only runs middleware on matched routes, so preflights need a route
	// of their own for CORS to answer them.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"movieclub/internal/config"
	"movieclub/internal/domain"
	"movieclub/internal/security"
	"movieclub/internal/service"
	"movieclub/internal/store/sqlite"
	"movieclub/internal/ws"
)

// NewRouter constructs the main HTTP router and wires repositories, services
// and middleware.
func NewRouter(cfg *config.Config, db *sqlx.DB, hub *ws.Hub, tokenSvc *security.TokenService, hasher *security.PasswordHasher, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	validate := validator.New()

	// Repositories
	userRepo := sqlite.NewUserRepo(db)
	movieRepo := sqlite.NewMovieRepo(db)
	commentRepo := sqlite.NewCommentRepo(db)
	messageRepo := sqlite.NewMessageRepo(db)
	favoriteRepo := sqlite.NewFavoriteRepo(db)
	watchlistRepo := sqlite.NewWatchlistRepo(db)
	listRepo := sqlite.NewWeeklyListRepo(db)

	// Services
	authSvc := service.NewAuthService(userRepo, tokenSvc, hasher, validate, log)
	userSvc := service.NewUserService(userRepo, hasher, validate, log)
	movieSvc := service.NewMovieService(movieRepo, validate, log)
	ratingSvc := service.NewRatingService(commentRepo, movieRepo, log)
	msgSvc := service.NewMessageService(messageRepo, userRepo, log)
	libSvc := service.NewLibraryService(favoriteRepo, watchlistRepo, movieRepo, log)
	listSvc := service.NewWeeklyListService(listRepo, movieRepo, validate, log)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "movieclub API", "version": "1.0.0"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handleRegister(authSvc))
		r.Post("/auth/login", handleLogin(authSvc))

		// Public catalog and weekly lists; staff see more with a token.
		r.Group(func(r chi.Router) {
			r.Use(MaybeAuthMiddleware(tokenSvc, userRepo))

			r.Get("/movies", handleSearchMovies(movieSvc))
			r.Get("/movies/{movieID}", handleGetMovie(movieSvc))
			r.Get("/movies/{movieID}/comments", handleListComments(ratingSvc))

			r.Get("/lists", handleListWeeklyLists(listSvc))
			r.Get("/lists/current", handleCurrentWeeklyList(listSvc))
			r.Get("/lists/shared/{token}", handleSharedWeeklyList(listSvc))
			r.Get("/lists/{listID}", handleGetWeeklyList(listSvc))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokenSvc, userRepo))
			admin := RequireRole(domain.RoleAdmin)

			r.Get("/auth/me", handleMe())
			r.Post("/auth/logout", handleLogout())

			r.Get("/users", handleListUsers(userSvc))
			r.Patch("/users/me", handleUpdateProfile(userSvc))
			r.Get("/users/{userID}", handleGetUser(userSvc))
			r.Delete("/users/{userID}", handleDeleteUser(userSvc))
			r.With(admin).Put("/users/{userID}/role", handleSetRole(userSvc))
			r.With(admin).Put("/users/{userID}/active", handleSetActive(userSvc))

			r.Post("/movies/{movieID}/comments", handleSubmitComment(ratingSvc))
			r.Delete("/movies/{movieID}/rating", handleClearRating(ratingSvc))
			r.Patch("/comments/{commentID}", handleEditComment(ratingSvc))
			r.Delete("/comments/{commentID}", handleDeleteComment(ratingSvc))
			r.With(RequireRole(domain.RoleModerator)).
				Post("/movies/{movieID}/recompute", handleRecomputeMovie(ratingSvc))

			r.With(admin).Post("/movies", handleCreateMovie(movieSvc))
			r.With(admin).Put("/movies/{movieID}", handleUpdateMovie(movieSvc))
			r.With(admin).Delete("/movies/{movieID}", handleDeleteMovie(movieSvc))

			r.Put("/movies/{movieID}/favorite", handleFavorite(libSvc, true))
			r.Delete("/movies/{movieID}/favorite", handleFavorite(libSvc, false))
			r.Put("/movies/{movieID}/watchlist", handleWatchlistAdd(libSvc))
			r.Patch("/movies/{movieID}/watchlist", handleSetWatched(libSvc))
			r.Delete("/movies/{movieID}/watchlist", handleWatchlistRemove(libSvc))
			r.Get("/me/favorites", handleListFavorites(libSvc))
			r.Get("/me/watchlist", handleWatchlist(libSvc))

			r.Get("/messages", handleListConversations(msgSvc))
			r.Get("/messages/unread", handleUnreadCount(msgSvc))
			r.Post("/messages", handleSendMessage(msgSvc, hub))
			r.Get("/messages/{userID}", handleOpenConversation(msgSvc))

			r.With(admin).Post("/lists", handleCreateWeeklyList(listSvc))
			r.With(admin).Put("/lists/{listID}", handleUpdateWeeklyList(listSvc))
			r.With(admin).Delete("/lists/{listID}", handleDeleteWeeklyList(listSvc))
			r.With(admin).Put("/lists/{listID}/movies/{movieID}", handleAddListMovie(listSvc))
			r.With(admin).Delete("/lists/{listID}/movies/{movieID}", handleRemoveListMovie(listSvc))
		})
	})

	// WebSocket endpoint for message notifications
	r.Get("/ws", ws.MakeHandler(hub, tokenSvc, userRepo, cfg.Server.CORSOrigins, log))

	return r
}

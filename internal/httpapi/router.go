package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"roombooking/internal/api"
	"roombooking/internal/booking"
	"roombooking/internal/document"
	"roombooking/internal/notification"
	"roombooking/internal/profile"
	"roombooking/internal/room"
	"roombooking/internal/stats"
	"roombooking/internal/user"
	"roombooking/pkg/config"
	"roombooking/pkg/objectstore"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
	// Redis is optional; when set, the room catalog is cached in it.
	Redis redis.Cmdable
	// Objects is optional; without it proposal uploads are reported as failed.
	Objects objectstore.Store
}

// Services are the pieces main also needs (the completion sweep).
type Services struct {
	Bookings *booking.Service
}

func NewRouter(deps Dependencies) (http.Handler, Services) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if _, ok := deps.Objects.(*objectstore.LocalStore); ok {
		fs := http.StripPrefix(objectstore.LocalURLPrefix, http.FileServer(http.Dir(deps.Cfg.Storage.LocalDir)))
		r.Handle(objectstore.LocalURLPrefix+"*", fs)
	}

	usersRepo := user.NewRepository(deps.DB)
	roomsRepo := room.NewRepository(deps.DB)
	var rooms room.Catalog = roomsRepo
	if deps.Redis != nil {
		rooms = room.NewCachedCatalog(rooms, deps.Redis, deps.Cfg.Redis.RoomCacheTTL)
	}
	notificationsRepo := notification.NewRepository(deps.DB)

	bookingDeps := booking.Deps{
		Store:    booking.NewRepository(deps.DB),
		Rooms:    rooms,
		Profiles: usersRepo,
		Notifier: notificationsRepo,
		Location: deps.Cfg.Location(),
	}
	if deps.Objects != nil {
		bookingDeps.Documents = document.NewUploader(deps.Objects, deps.Cfg.Storage.MaxDocumentBytes)
	}
	bookings := booking.NewService(bookingDeps)

	roomHandlers := room.Handlers{Catalog: rooms, Inventory: roomsRepo}
	bookingHandlers := booking.Handlers{Service: bookings, MaxUploadBytes: deps.Cfg.Storage.MaxDocumentBytes}
	profileHandlers := profile.Handlers{Store: usersRepo, Directory: usersRepo}
	notificationHandlers := notification.Handlers{Inbox: notificationsRepo}
	statsHandlers := stats.Handlers{Source: stats.NewRepository(deps.DB)}

	r.Route("/v1", func(r chi.Router) {
		// Public catalog
		r.Get("/rooms", roomHandlers.List)
		r.Get("/room-types", roomHandlers.ListTypes)
		r.Get("/rooms/{id}", roomHandlers.Get)
		r.Get("/rooms/{id}/availability", bookingHandlers.Availability)

		// Signed-in users
		r.Group(func(r chi.Router) {
			// Production: bearer access token from the auth provider.
			// Dev: falls back to X-User-ID if Authorization is missing.
			r.Use(api.SessionAuth(deps.Cfg, usersRepo))

			r.Get("/profile", profileHandlers.Get)
			r.Post("/profile", profileHandlers.Create)

			r.Get("/bookings", bookingHandlers.ListMine)
			r.Post("/bookings", bookingHandlers.Submit)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Get("/bookings/{id}/events", bookingHandlers.Events)
			r.Post("/bookings/{id}/cancel", bookingHandlers.Cancel)

			r.Get("/notifications", notificationHandlers.List)
			r.Post("/notifications/{id}/read", notificationHandlers.MarkRead)

			// Staff review
			r.Route("/admin", func(r chi.Router) {
				r.Use(api.RequireStaff)
				r.Get("/bookings", bookingHandlers.AdminList)
				r.Post("/bookings/{id}/approve", bookingHandlers.Approve)
				r.Post("/bookings/{id}/reject", bookingHandlers.Reject)
				r.Get("/rooms", roomHandlers.AdminList)
				r.Get("/users", profileHandlers.AdminList)
				r.Get("/stats", statsHandlers.Dashboard)
			})
		})
	})

	return r, Services{Bookings: bookings}
}

package routes

import (
	"github.com/julienschmidt/httprouter"

	"roadtrip/auth"
	"roadtrip/budget"
	"roadtrip/checklist"
	"roadtrip/export"
	"roadtrip/flights"
	"roadtrip/gmaps"
	"roadtrip/home"
	"roadtrip/hotels"
	"roadtrip/hub"
	"roadtrip/itinerary"
	"roadtrip/maps"
	"roadtrip/middleware"
	"roadtrip/mq"
	"roadtrip/places"
	"roadtrip/ratelim"
	"roadtrip/restaurants"
	"roadtrip/session"
	"roadtrip/settings"
	"roadtrip/tripdata"
)

// Deps is everything the handlers are built from.
type Deps struct {
	Repo     *tripdata.Repo
	Gateway  gmaps.Gateway
	Sessions *session.Manager
	Notifier mq.Notifier
	Hub      *hub.Hub
	Limiter  *ratelim.RateLimiter
	PDF      *export.PDF

	Password  string
	JWTSecret []byte
}

// RoutesWrapper builds every handler and registers its routes.
func RoutesWrapper(router *httprouter.Router, d Deps) error {
	a := middleware.NewAuth(d.JWTSecret, d.Sessions)
	login, err := auth.NewHandler(d.Password, d.JWTSecret, d.Sessions)
	if err != nil {
		return err
	}

	AddUtilityRoutes(router)
	AddAuthRoutes(router, a, login, d.Limiter)
	AddHomeRoutes(router, a, home.NewHandler(d.Repo))
	AddPlaceRoutes(router, a, places.NewHandler(d.Repo, d.Gateway, d.Notifier))
	AddMapRoutes(router, a, maps.NewHandler(d.Repo, d.Gateway))
	AddItineraryRoutes(router, a, itinerary.NewHandler(d.Repo, d.Notifier, d.PDF))
	AddFlightRoutes(router, a, flights.NewHandler(d.Repo, d.Notifier))
	AddHotelRoutes(router, a, hotels.NewHandler(d.Repo, d.Notifier))
	AddRestaurantRoutes(router, a, restaurants.NewHandler(d.Repo, d.Notifier))
	AddBudgetRoutes(router, a, budget.NewHandler(d.Repo, d.Notifier))
	AddChecklistRoutes(router, a, checklist.NewHandler(d.Repo, d.Notifier))
	AddSettingsRoutes(router, a, settings.NewHandler(d.Repo, d.Notifier))
	if d.Hub != nil {
		AddChangeFeedRoutes(router, a, d.Hub)
	}
	return nil
}

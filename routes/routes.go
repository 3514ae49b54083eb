package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roadtrip/auth"
	"roadtrip/budget"
	"roadtrip/checklist"
	"roadtrip/flights"
	"roadtrip/home"
	"roadtrip/hotels"
	"roadtrip/hub"
	"roadtrip/itinerary"
	"roadtrip/maps"
	"roadtrip/metrics"
	"roadtrip/middleware"
	"roadtrip/places"
	"roadtrip/ratelim"
	"roadtrip/restaurants"
	"roadtrip/settings"
)

// guard attaches the caller's session and records metrics under route.
func guard(a *middleware.Auth, route string, h httprouter.Handle) httprouter.Handle {
	return middleware.Instrument(route, a.WithSession(h))
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())
}

func AddAuthRoutes(router *httprouter.Router, a *middleware.Auth, h *auth.Handler, limiter *ratelim.RateLimiter) {
	router.POST("/api/auth/login", middleware.Instrument("/api/auth/login", limiter.Limit(h.Login)))
	router.POST("/api/auth/logout", middleware.Instrument("/api/auth/logout", a.Authenticate(h.Logout)))
}

func AddHomeRoutes(router *httprouter.Router, a *middleware.Auth, h *home.Handler) {
	router.GET("/api/state", guard(a, "/api/state", h.GetState))
	router.GET("/api/state/:section", guard(a, "/api/state/:section", h.GetSection))
	router.POST("/api/state/reload", guard(a, "/api/state/reload", h.Reload))
}

func AddPlaceRoutes(router *httprouter.Router, a *middleware.Auth, h *places.Handler) {
	router.POST("/api/places/search", guard(a, "/api/places/search", h.Search))
	router.POST("/api/places/preview", guard(a, "/api/places/preview", h.Preview))
	router.POST("/api/places", guard(a, "/api/places", h.Add))
	router.GET("/api/places", guard(a, "/api/places", h.List))
	router.PUT("/api/places/order", guard(a, "/api/places/order", h.Reorder))
	router.DELETE("/api/places/:index", guard(a, "/api/places/:index", h.Delete))
}

func AddMapRoutes(router *httprouter.Router, a *middleware.Auth, h *maps.Handler) {
	router.POST("/api/route", guard(a, "/api/route", h.CalculateRoute))
	router.DELETE("/api/route", guard(a, "/api/route", h.ClearRoute))
	router.POST("/api/segments/toggle", guard(a, "/api/segments/toggle", h.ToggleSegments))
	router.GET("/api/segments", guard(a, "/api/segments", h.GetSegments))
	router.GET("/api/map", guard(a, "/api/map", h.GetMap))
}

func AddItineraryRoutes(router *httprouter.Router, a *middleware.Auth, h *itinerary.Handler) {
	router.GET("/api/itinerary", guard(a, "/api/itinerary", h.GetItinerary))
	router.POST("/api/itinerary", guard(a, "/api/itinerary", h.AddActivity))
	router.GET("/api/itinerary/export.csv", guard(a, "/api/itinerary/export.csv", h.ExportCSV))
	router.GET("/api/itinerary/export.pdf", guard(a, "/api/itinerary/export.pdf", h.ExportPDF))
	router.DELETE("/api/itinerary/:index", guard(a, "/api/itinerary/:index", h.DeleteActivity))
}

func AddFlightRoutes(router *httprouter.Router, a *middleware.Auth, h *flights.Handler) {
	router.GET("/api/flights", guard(a, "/api/flights", h.GetFlights))
	router.POST("/api/flights", guard(a, "/api/flights", h.AddFlight))
	router.DELETE("/api/flights/:index", guard(a, "/api/flights/:index", h.DeleteFlight))
}

func AddHotelRoutes(router *httprouter.Router, a *middleware.Auth, h *hotels.Handler) {
	router.GET("/api/hotels", guard(a, "/api/hotels", h.GetHotels))
	router.POST("/api/hotels", guard(a, "/api/hotels", h.AddHotel))
	router.DELETE("/api/hotels/:index", guard(a, "/api/hotels/:index", h.DeleteHotel))
}

func AddRestaurantRoutes(router *httprouter.Router, a *middleware.Auth, h *restaurants.Handler) {
	router.GET("/api/restaurants", guard(a, "/api/restaurants", h.GetRestaurants))
	router.POST("/api/restaurants", guard(a, "/api/restaurants", h.AddRestaurant))
	router.PUT("/api/restaurants/:index/visited", guard(a, "/api/restaurants/:index/visited", h.ToggleVisited))
	router.DELETE("/api/restaurants/:index", guard(a, "/api/restaurants/:index", h.DeleteRestaurant))
}

func AddBudgetRoutes(router *httprouter.Router, a *middleware.Auth, h *budget.Handler) {
	router.GET("/api/budget", guard(a, "/api/budget", h.GetBudget))
	router.PUT("/api/budget/planned", guard(a, "/api/budget/planned", h.UpdatePlanned))
	router.POST("/api/budget/expenses", guard(a, "/api/budget/expenses", h.AddExpense))
	router.DELETE("/api/budget/expenses/:index", guard(a, "/api/budget/expenses/:index", h.DeleteExpense))
}

func AddChecklistRoutes(router *httprouter.Router, a *middleware.Auth, h *checklist.Handler) {
	router.GET("/api/checklist/:person", guard(a, "/api/checklist/:person", h.GetChecklist))
	router.POST("/api/checklist/:person", guard(a, "/api/checklist/:person", h.AddItem))
	router.PUT("/api/checklist/:person/:index/toggle", guard(a, "/api/checklist/:person/:index/toggle", h.ToggleItem))
	router.DELETE("/api/checklist/:person/:index", guard(a, "/api/checklist/:person/:index", h.DeleteItem))
}

func AddSettingsRoutes(router *httprouter.Router, a *middleware.Auth, h *settings.Handler) {
	router.GET("/api/settings", guard(a, "/api/settings", h.GetSettings))
	router.PUT("/api/settings", guard(a, "/api/settings", h.UpdateSettings))
}

// AddChangeFeedRoutes serves the WebSocket change feed. It does not hold the
// session, which would block the browser's other requests.
func AddChangeFeedRoutes(router *httprouter.Router, a *middleware.Auth, h *hub.Hub) {
	router.GET("/ws", a.Authenticate(hub.ServeWS(h)))
}

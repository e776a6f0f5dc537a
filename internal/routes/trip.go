package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/handlers"
)

func RegisterTripRoutes(r gin.IRouter, h *handlers.Handler, g Guards) {
	trips := r.Group("/trips")
	{
		public := trips.Group("")
		public.Use(g.Optional)
		{
			public.GET("", h.ListTrips)
			public.GET("/search", h.SearchTrips)
			public.GET("/:id", h.GetTrip)
		}

		protected := trips.Group("")
		protected.Use(g.Auth)
		{
			protected.GET("/my", h.MyTrips)
			protected.POST("", h.CreateTrip)
			protected.PUT("/:id", h.UpdateTrip)
			protected.DELETE("/:id", h.DeleteTrip)
			protected.PUT("/:id/complete", h.CompleteTrip)
			protected.POST("/:id/request", h.RequestToJoin)
			protected.GET("/:id/requests", h.TripRequests)
		}
	}
}

func RegisterTripRequestRoutes(r gin.IRouter, h *handlers.Handler, g Guards) {
	requests := r.Group("/trip-requests")
	requests.Use(g.Auth)
	{
		requests.GET("", h.ListTripRequests)
		requests.PUT("/:id", h.ResolveTripRequest)
	}

	r.POST("/request-join", g.Auth, h.RequestJoin)
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/handlers"
)

func RegisterReviewRoutes(r gin.IRouter, h *handlers.Handler, g Guards) {
	reviews := r.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.GET("/trip/:tripId", h.TripReviews)

		protected := reviews.Group("")
		protected.Use(g.Auth)
		{
			protected.GET("/my", h.MyReviews)
			protected.POST("", h.CreateReview)
			protected.PUT("/:id", h.UpdateReview)
			protected.DELETE("/:id", h.DeleteReview)
		}
	}
}

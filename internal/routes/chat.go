package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/handlers"
)

func RegisterChatRoutes(r gin.IRouter, h *handlers.Handler, g Guards) {
	chats := r.Group("/chats")
	chats.Use(g.Auth)
	{
		chats.GET("", h.ListChats)
		chats.POST("/create", h.CreateChat)
		chats.GET("/:id/messages", h.GetMessages)
		chats.POST("/:id/messages", g.ChatLimit, h.SendMessage)
		chats.POST("/:id/read", h.MarkChatRead)
	}
}

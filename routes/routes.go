package routes

import (
    "caltrack/controllers"
    "caltrack/middlewares"

    "github.com/gin-gonic/gin"
)

func SetupRouter(
    auth *controllers.AuthController,
    logs *controllers.LogController,
    estimates *controllers.EstimateController,
    assistant *controllers.AssistantController,
) *gin.Engine {
    r := gin.Default()

    api := r.Group("/api/v1")

    // Public auth routes
    authGroup := api.Group("/auth")
    {
        authGroup.POST("/register", auth.Register)
        authGroup.POST("/login", auth.Login)
    }

    // Protected routes
    authed := api.Group("/")
    authed.Use(middlewares.AuthMiddleware())
    {
        authed.POST("/auth/logout", auth.Logout)

        authed.POST("/logs", logs.AddEntries)
        authed.GET("/logs/today", logs.Today)
        authed.GET("/logs/day/:date", logs.Day)
        authed.GET("/logs/history", logs.History)
        authed.DELETE("/logs/:id", logs.DeleteEntry)

        authed.POST("/estimate", estimates.Estimate)
        authed.POST("/estimate/photo", estimates.EstimateFromPhoto)

        authed.POST("/assistant/message", assistant.Message)
        authed.GET("/assistant/history", assistant.History)
        authed.GET("/assistant/ws-token", assistant.WSToken)
    }

    // Websocket upgrade authenticates via single-use ticket, not a header
    r.GET("/assistant/ws/:token", assistant.HandleWS)

    return r
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ShahwaizZahid/pog-blog/controllers"
	"github.com/ShahwaizZahid/pog-blog/middleware"
)

func SetupUserRoutes(r *gin.Engine, uc *controllers.UserController, sessions middleware.Sessions) {
	grp := r.Group("/users")
	{
		grp.POST("/signup", uc.Signup)
		grp.POST("/login", uc.Login)
		grp.POST("/verify-email", uc.VerifyEmail)
		grp.POST("/logout", middleware.Session(sessions, true), uc.Logout)
		grp.GET("/me", middleware.Session(sessions, true), uc.Me)
		grp.GET("/:username", uc.Profile)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ShahwaizZahid/pog-blog/controllers"
	"github.com/ShahwaizZahid/pog-blog/middleware"
)

func SetupBlogRoutes(r *gin.Engine, bc *controllers.BlogController, sessions middleware.Sessions) {
	grp := r.Group("/blogs")
	{
		// optional sessions personalize the likedByMe flag
		grp.GET("", middleware.Session(sessions, false), bc.List)
		grp.GET("/likedBy/:id", bc.LikedBy)
		grp.GET("/comments/:id", bc.ListComments)
		grp.GET("/:username/:title", middleware.Session(sessions, false), bc.ByUsernameTitle)

		grp.POST("/add", middleware.Session(sessions, true), bc.Add)
		grp.POST("/like/:id", middleware.Session(sessions, true), bc.Like)
		grp.POST("/comment/:id", middleware.Session(sessions, true), bc.CreateComment)
		grp.POST("/upload-image", middleware.Session(sessions, true), bc.UploadImage)
	}
}

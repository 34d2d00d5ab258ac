package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ShahwaizZahid/pog-blog/config"
	"github.com/ShahwaizZahid/pog-blog/controllers"
	"github.com/ShahwaizZahid/pog-blog/middleware"
	"github.com/ShahwaizZahid/pog-blog/store"
	"github.com/ShahwaizZahid/pog-blog/utils"
)

// SetupRouter builds the gin engine, wires the stores and controllers
// and registers all routes.
func SetupRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())

	// CORS before routes; the SPA runs on its own origin and sends the
	// session cookie cross-site.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	db := utils.GetDB()
	rdb := utils.GetRedis()

	users := store.NewUsers(db)
	blogs := store.NewBlogs(db)
	comments := store.NewComments(db)
	codes := store.NewValidationCodes(db)

	sessions := &utils.RedisSessions{RDB: rdb}
	mailer := &utils.SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass}
	limiter := &utils.RedisLimiter{RDB: rdb}

	userController := controllers.NewUserController(users, blogs, codes, sessions, mailer, limiter)
	blogController := controllers.NewBlogController(blogs, comments, users)

	SetupUserRoutes(r, userController, sessions)
	SetupBlogRoutes(r, blogController, sessions)

	r.Static("/uploads", "./uploads")

	return r
}

package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ShahwaizZahid/pog-blog/middleware"
	"github.com/ShahwaizZahid/pog-blog/models"
	"github.com/ShahwaizZahid/pog-blog/store"
	"github.com/ShahwaizZahid/pog-blog/utils"
)

// codeTTL is how long a signup verification code stays usable.
const codeTTL = 10 * time.Minute

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	MarkVerified(ctx context.Context, email string) error
}

type CodeStore interface {
	Upsert(ctx context.Context, code models.ValidationCode) error
	Find(ctx context.Context, email, code string) (*models.ValidationCode, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SessionService interface {
	Create(ctx context.Context, userID primitive.ObjectID) (string, error)
	Delete(ctx context.Context, token string) error
}

type Mailer interface {
	Send(to, subject, body string) error
}

type RateLimiter interface {
	CanSend(ctx context.Context, key string) (bool, string)
	MarkSent(ctx context.Context, key string)
}

type UserController struct {
	Users    UserStore
	Blogs    BlogStore
	Codes    CodeStore
	Sessions SessionService
	Mailer   Mailer
	Limiter  RateLimiter
}

func NewUserController(users UserStore, blogs BlogStore, codes CodeStore, sessions SessionService, mailer Mailer, limiter RateLimiter) *UserController {
	return &UserController{Users: users, Blogs: blogs, Codes: codes, Sessions: sessions, Mailer: mailer, Limiter: limiter}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /users/signup
// A verified account for the email blocks signup. An unverified one is
// deleted and the flow restarts; its validation code gets superseded
// by the upsert below.
func (uc *UserController) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid signup request"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	if ok, msg := uc.Limiter.CanSend(ctx, "signup:"+email); !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": msg})
		return
	}

	if other, err := uc.Users.ByUsername(ctx, req.Username); err == nil && other.Email != email {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username already taken"})
		return
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.LogError(err, "check username")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign up"})
		return
	}

	existing, err := uc.Users.ByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.LogError(err, "check email")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign up"})
		return
	}
	if existing != nil {
		if existing.Verified {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email already in use"})
			return
		}
		if err := uc.Users.Delete(ctx, existing.ID); err != nil {
			utils.LogError(err, "delete unverified user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign up"})
			return
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError(err, "hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign up"})
		return
	}
	user := models.User{
		Email:     email,
		Username:  req.Username,
		Password:  hash,
		Picture:   models.DefaultPicture,
		Bio:       models.DefaultBio,
		Verified:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.Users.Insert(ctx, &user); err != nil {
		utils.LogError(err, "insert user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign up"})
		return
	}

	code := utils.GenerateOTP()
	if err := uc.Codes.Upsert(ctx, models.ValidationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(codeTTL),
	}); err != nil {
		utils.LogError(err, "store validation code")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign up"})
		return
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(codeTTL.Minutes()))
	if err := uc.Mailer.Send(email, "Verify your email", body); err != nil {
		utils.LogError(err, "send verification email")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to send verification email"})
		return
	}
	uc.Limiter.MarkSent(ctx, "signup:"+email)

	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// POST /users/verify-email
// Flips the one-way unverified -> verified transition and consumes the
// code. A concurrent duplicate request is not guarded against.
func (uc *UserController) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	code, err := uc.Codes.Find(ctx, email, req.OTP)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid verification code"})
			return
		}
		utils.LogError(err, "find validation code")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to verify email"})
		return
	}
	if time.Now().After(code.ExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "verification code expired"})
		return
	}
	if err := uc.Users.MarkVerified(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "user not found"})
			return
		}
		utils.LogError(err, "mark user verified")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to verify email"})
		return
	}
	if err := uc.Codes.Delete(ctx, code.ID); err != nil {
		utils.LogError(err, "delete validation code")
	}
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /users/login
func (uc *UserController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	user, err := uc.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "incorrect email or password"})
			return
		}
		utils.LogError(err, "load user for login")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to log in"})
		return
	}
	if !user.Verified {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email not verified"})
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "incorrect email or password"})
		return
	}

	token, err := uc.Sessions.Create(ctx, user.ID)
	if err != nil {
		utils.LogError(err, "create session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to log in"})
		return
	}
	c.SetCookie(middleware.SessionCookie, token, int(utils.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// POST /users/logout
func (uc *UserController) Logout(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	if err := uc.Sessions.Delete(c.Request.Context(), sess.Token); err != nil {
		utils.LogError(err, "delete session")
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GET /users/me
func (uc *UserController) Me(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	user, err := uc.Users.ByID(c.Request.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		utils.LogError(err, "load current user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

// GET /users/:username
// Public profile plus the author's blog summaries, newest first.
func (uc *UserController) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := uc.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		utils.LogError(err, "load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch profile"})
		return
	}
	blogs, err := uc.Blogs.ByAuthor(ctx, user.ID)
	if err != nil {
		utils.LogError(err, "load profile blogs")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch profile"})
		return
	}
	items := make([]gin.H, 0, len(blogs))
	for _, b := range blogs {
		items = append(items, gin.H{
			"id":           b.ID.Hex(),
			"title":        b.Title,
			"description":  b.Description,
			"image":        b.Image,
			"createdAt":    b.CreatedAt.Format(time.RFC3339),
			"likeCount":    len(b.Likes),
			"commentCount": len(b.Comments),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID.Hex(),
			"username": user.Username,
			"picture":  user.Picture,
			"bio":      user.Bio,
		},
		"blogs": items,
	})
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID.Hex(),
		"email":    u.Email,
		"username": u.Username,
		"picture":  u.Picture,
		"bio":      u.Bio,
	}
}

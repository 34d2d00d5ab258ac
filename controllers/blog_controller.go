package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"mime/multipart"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ShahwaizZahid/pog-blog/middleware"
	"github.com/ShahwaizZahid/pog-blog/models"
	"github.com/ShahwaizZahid/pog-blog/store"
	"github.com/ShahwaizZahid/pog-blog/utils"
)

const (
	pageSize = 20

	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxCommentLen     = 1000
)

type BlogStore interface {
	Insert(ctx context.Context, b *models.Blog) error
	Page(ctx context.Context, page, size int) ([]models.Blog, int64, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	ByAuthorTitle(ctx context.Context, author primitive.ObjectID, title string) (*models.Blog, error)
	ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Blog, error)
	AddLike(ctx context.Context, blogID, userID primitive.ObjectID) (int, error)
	LikeWindow(ctx context.Context, blogID primitive.ObjectID, skip, limit int) ([]primitive.ObjectID, error)
	CommentWindow(ctx context.Context, blogID primitive.ObjectID, skip, limit int) ([]primitive.ObjectID, error)
	AppendComment(ctx context.Context, blogID, commentID primitive.ObjectID) error
}

type CommentStore interface {
	Insert(ctx context.Context, cm *models.Comment) error
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error)
}

type BlogController struct {
	Blogs    BlogStore
	Comments CommentStore
	Users    UserStore
}

func NewBlogController(blogs BlogStore, comments CommentStore, users UserStore) *BlogController {
	return &BlogController{Blogs: blogs, Comments: comments, Users: users}
}

// parsePage accepts only positive integers; anything else is a
// validation error for every listing endpoint.
func parsePage(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

type addBlogPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Image       string `json:"image"`
}

func validateBlogPayload(req addBlogPayload) (string, bool) {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required", false
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLen {
		return fmt.Sprintf("title must be at most %d characters", maxTitleLen), false
	}
	if strings.TrimSpace(req.Description) == "" {
		return "description is required", false
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		return fmt.Sprintf("description must be at most %d characters", maxDescriptionLen), false
	}
	if strings.TrimSpace(req.Content) == "" {
		return "content is required", false
	}
	return "", true
}

// GET /blogs?page=1
// Offset pagination over the whole feed: the total count is recomputed
// per request and hasMore compares page*pageSize against it, so
// concurrent inserts ahead of the queried page can shift items between
// pages.
func (bc *BlogController) List(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid page"})
		return
	}
	ctx := c.Request.Context()
	blogs, total, err := bc.Blogs.Page(ctx, page, pageSize)
	if err != nil {
		utils.LogError(err, "list blogs")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch blogs"})
		return
	}
	authors, err := bc.authorSummaries(ctx, blogs)
	if err != nil {
		utils.LogError(err, "resolve blog authors")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch blogs"})
		return
	}
	viewer, hasViewer := middleware.CurrentSession(c)
	items := make([]gin.H, 0, len(blogs))
	for _, b := range blogs {
		items = append(items, bc.toItem(b, authors[b.Author], viewer, hasViewer, false))
	}
	c.JSON(http.StatusOK, gin.H{
		"blogs":   items,
		"hasMore": int64(page*pageSize) < total,
	})
}

// POST /blogs/add
func (bc *BlogController) Add(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	var req addBlogPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}
	if msg, ok := validateBlogPayload(req); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}
	ctx := c.Request.Context()
	author, err := bc.Users.ByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "user not found"})
			return
		}
		utils.LogError(err, "load blog author")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create blog"})
		return
	}
	blog := models.Blog{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Image:       req.Image,
		Author:      sess.UserID,
		Likes:       []primitive.ObjectID{},
		Comments:    []primitive.ObjectID{},
		CreatedAt:   time.Now().UTC(),
	}
	if err := bc.Blogs.Insert(ctx, &blog); err != nil {
		utils.LogError(err, "insert blog")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create blog"})
		return
	}
	summary := models.UserSummary{ID: author.ID, Username: author.Username, Picture: author.Picture}
	c.JSON(http.StatusCreated, gin.H{"blog": bc.toItem(blog, summary, sess, true, true)})
}

// POST /blogs/like/:id
// A single conditional update: append only if the viewer's id is not
// already in the like set. Zero matched documents is ambiguous between
// "already liked" and "blog not found"; both come back as the same 400.
func (bc *BlogController) Like(c *gin.Context) {
	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid blog id"})
		return
	}
	sess, _ := middleware.CurrentSession(c)
	likes, err := bc.Blogs.AddLike(c.Request.Context(), blogID, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyLiked) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "already liked"})
			return
		}
		utils.LogError(err, "like blog")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to like blog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// GET /blogs/likedBy/:id?page=1
// Pages by slicing the embedded like-id array with a [skip, size+1]
// window; the extra element only signals hasMore, no count query runs.
func (bc *BlogController) LikedBy(c *gin.Context) {
	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid blog id"})
		return
	}
	page, ok := parsePage(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid page"})
		return
	}
	ctx := c.Request.Context()
	ids, err := bc.Blogs.LikeWindow(ctx, blogID, (page-1)*pageSize, pageSize+1)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "blog not found"})
			return
		}
		utils.LogError(err, "fetch like window")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch likes"})
		return
	}
	hasMore := len(ids) > pageSize
	if hasMore {
		ids = ids[:pageSize]
	}
	users, err := bc.Users.Summaries(ctx, ids)
	if err != nil {
		utils.LogError(err, "resolve likers")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch likes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "hasMore": hasMore})
}

// GET /blogs/comments/:id?page=1
// Same window strategy as likedBy, applied to the comment reference
// array, then resolved to comment documents with their authors.
func (bc *BlogController) ListComments(c *gin.Context) {
	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid blog id"})
		return
	}
	page, ok := parsePage(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid page"})
		return
	}
	ctx := c.Request.Context()
	ids, err := bc.Blogs.CommentWindow(ctx, blogID, (page-1)*pageSize, pageSize+1)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "blog not found"})
			return
		}
		utils.LogError(err, "fetch comment window")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch comments"})
		return
	}
	hasMore := len(ids) > pageSize
	if hasMore {
		ids = ids[:pageSize]
	}
	comments, err := bc.Comments.ByIDs(ctx, ids)
	if err != nil {
		utils.LogError(err, "resolve comments")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch comments"})
		return
	}
	authorIDs := make([]primitive.ObjectID, 0, len(comments))
	seen := make(map[primitive.ObjectID]bool, len(comments))
	for _, cm := range comments {
		if !seen[cm.Author] {
			seen[cm.Author] = true
			authorIDs = append(authorIDs, cm.Author)
		}
	}
	summaries, err := bc.Users.Summaries(ctx, authorIDs)
	if err != nil {
		utils.LogError(err, "resolve comment authors")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch comments"})
		return
	}
	byID := make(map[primitive.ObjectID]models.UserSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	items := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		items = append(items, commentItem(cm, byID[cm.Author]))
	}
	c.JSON(http.StatusOK, gin.H{"comments": items, "hasMore": hasMore})
}

type addCommentPayload struct {
	Content string `json:"content"`
}

// POST /blogs/comment/:id
// Two independent writes: insert the comment, then append its id to
// the blog. A failure between them leaves the comment unreferenced by
// its blog; nothing repairs that.
func (bc *BlogController) CreateComment(c *gin.Context) {
	blogID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid blog id"})
		return
	}
	var req addCommentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "comment content is required"})
		return
	}
	if utf8.RuneCountInString(req.Content) > maxCommentLen {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("comment must be at most %d characters", maxCommentLen)})
		return
	}
	ctx := c.Request.Context()
	if _, err := bc.Blogs.ByID(ctx, blogID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "blog not found"})
			return
		}
		utils.LogError(err, "load blog for comment")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create comment"})
		return
	}
	sess, _ := middleware.CurrentSession(c)
	comment := models.Comment{
		Content:   req.Content,
		Author:    sess.UserID,
		Blog:      blogID,
		CreatedAt: time.Now().UTC(),
	}
	if err := bc.Comments.Insert(ctx, &comment); err != nil {
		utils.LogError(err, "insert comment")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create comment"})
		return
	}
	if err := bc.Blogs.AppendComment(ctx, blogID, comment.ID); err != nil {
		utils.LogError(err, "append comment reference")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create comment"})
		return
	}
	summaries, err := bc.Users.Summaries(ctx, []primitive.ObjectID{sess.UserID})
	if err != nil || len(summaries) == 0 {
		if err != nil {
			utils.LogError(err, "resolve comment author")
		}
		c.JSON(http.StatusCreated, gin.H{"comment": commentItem(comment, models.UserSummary{ID: sess.UserID})})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": commentItem(comment, summaries[0])})
}

// GET /blogs/:username/:title
func (bc *BlogController) ByUsernameTitle(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := bc.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		utils.LogError(err, "load blog author")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch blog"})
		return
	}
	blog, err := bc.Blogs.ByAuthorTitle(ctx, author.ID, c.Param("title"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "blog not found"})
			return
		}
		utils.LogError(err, "load blog by title")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch blog"})
		return
	}
	viewer, hasViewer := middleware.CurrentSession(c)
	summary := models.UserSummary{ID: author.ID, Username: author.Username, Picture: author.Picture}
	c.JSON(http.StatusOK, gin.H{"blog": bc.toItem(*blog, summary, viewer, hasViewer, true)})
}

// saveUploadedImage stores a blog image under ./uploads/blog and
// returns a URL of the form /uploads/blog/<filename>.
func saveUploadedImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	dstDir := "./uploads/blog"
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	dstPath := filepath.Join(dstDir, filename)

	if err := c.SaveUploadedFile(file, dstPath); err != nil {
		return "", err
	}

	return "/uploads/blog/" + filename, nil
}

// POST /blogs/upload-image
// multipart/form-data, field "file".
func (bc *BlogController) UploadImage(c *gin.Context) {
	const maxUploadSize = 10 << 20 // 10 MB
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file is required"})
		return
	}

	url, err := saveUploadedImage(c, file)
	if err != nil {
		utils.LogError(err, "save uploaded image")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (bc *BlogController) authorSummaries(ctx context.Context, blogs []models.Blog) (map[primitive.ObjectID]models.UserSummary, error) {
	ids := make([]primitive.ObjectID, 0, len(blogs))
	seen := make(map[primitive.ObjectID]bool, len(blogs))
	for _, b := range blogs {
		if !seen[b.Author] {
			seen[b.Author] = true
			ids = append(ids, b.Author)
		}
	}
	summaries, err := bc.Users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.UserSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	return byID, nil
}

func (bc *BlogController) toItem(b models.Blog, author models.UserSummary, viewer models.Session, hasViewer, withContent bool) gin.H {
	likedByMe := false
	if hasViewer {
		for _, id := range b.Likes {
			if id == viewer.UserID {
				likedByMe = true
				break
			}
		}
	}
	item := gin.H{
		"id":           b.ID.Hex(),
		"title":        b.Title,
		"description":  b.Description,
		"image":        b.Image,
		"createdAt":    b.CreatedAt.Format(time.RFC3339),
		"author":       author,
		"likeCount":    len(b.Likes),
		"commentCount": len(b.Comments),
		"likedByMe":    likedByMe,
	}
	if withContent {
		item["content"] = b.Content
	}
	return item
}

func commentItem(cm models.Comment, author models.UserSummary) gin.H {
	return gin.H{
		"id":        cm.ID.Hex(),
		"content":   cm.Content,
		"createdAt": cm.CreatedAt.Format(time.RFC3339),
		"author":    author,
	}
}

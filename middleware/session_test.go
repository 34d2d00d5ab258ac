package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ShahwaizZahid/pog-blog/middleware"
	"github.com/ShahwaizZahid/pog-blog/models"
)

type staticSessions map[string]primitive.ObjectID

func (s staticSessions) Resolve(ctx context.Context, token string) (models.Session, error) {
	userID, ok := s[token]
	if !ok {
		return models.Session{}, errors.New("session not found")
	}
	return models.Session{Token: token, UserID: userID}, nil
}

func newSessionRouter(sessions middleware.Sessions, required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", middleware.Session(sessions, required), func(c *gin.Context) {
		sess, ok := middleware.CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"hasSession": ok, "userId": sess.UserID.Hex()})
	})
	return r
}

func probe(r *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/probe", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionRequired(t *testing.T) {
	userID := primitive.NewObjectID()
	r := newSessionRouter(staticSessions{"good": userID}, true)

	w := probe(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = probe(r, "bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = probe(r, "good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.Hex())
}

func TestSessionOptional(t *testing.T) {
	userID := primitive.NewObjectID()
	r := newSessionRouter(staticSessions{"good": userID}, false)

	// missing and invalid cookies both fall through with no session
	for _, cookie := range []string{"", "bad"} {
		w := probe(r, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"hasSession":false`)
	}

	w := probe(r, "good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasSession":true`)
}

func TestCurrentSessionWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := middleware.CurrentSession(c)
	assert.False(t, ok)
}

package controllers_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ShahwaizZahid/pog-blog/models"
	"github.com/ShahwaizZahid/pog-blog/store"
)

// memDB backs the per-resource fakes below with shared in-memory
// state, mirroring the semantics of the mongo store package.
type memDB struct {
	users    map[primitive.ObjectID]*models.User
	blogs    map[primitive.ObjectID]*models.Blog
	comments map[primitive.ObjectID]*models.Comment
	codes    map[string]models.ValidationCode // keyed by email
}

func newMemDB() *memDB {
	return &memDB{
		users:    make(map[primitive.ObjectID]*models.User),
		blogs:    make(map[primitive.ObjectID]*models.Blog),
		comments: make(map[primitive.ObjectID]*models.Comment),
		codes:    make(map[string]models.ValidationCode),
	}
}

type memUsers struct{ db *memDB }

func (m *memUsers) Insert(ctx context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	m.db.users[u.ID] = u
	return nil
}

func (m *memUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) ByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := m.db.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) Summaries(ctx context.Context, ids []primitive.ObjectID) ([]models.UserSummary, error) {
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.db.users[id]; ok {
			out = append(out, models.UserSummary{ID: u.ID, Username: u.Username, Picture: u.Picture})
		}
	}
	return out, nil
}

func (m *memUsers) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(m.db.users, id)
	return nil
}

func (m *memUsers) MarkVerified(ctx context.Context, email string) error {
	for _, u := range m.db.users {
		if u.Email == email {
			u.Verified = true
			return nil
		}
	}
	return store.ErrNotFound
}

type memBlogs struct{ db *memDB }

func (m *memBlogs) Insert(ctx context.Context, b *models.Blog) error {
	b.ID = primitive.NewObjectID()
	m.db.blogs[b.ID] = b
	return nil
}

func (m *memBlogs) Page(ctx context.Context, page, size int) ([]models.Blog, int64, error) {
	all := make([]models.Blog, 0, len(m.db.blogs))
	for _, b := range m.db.blogs {
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	skip := (page - 1) * size
	if skip >= len(all) {
		return []models.Blog{}, int64(len(all)), nil
	}
	end := skip + size
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], int64(len(all)), nil
}

func (m *memBlogs) ByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	if b, ok := m.db.blogs[id]; ok {
		return b, nil
	}
	return nil, store.ErrNotFound
}

func (m *memBlogs) ByAuthorTitle(ctx context.Context, author primitive.ObjectID, title string) (*models.Blog, error) {
	for _, b := range m.db.blogs {
		if b.Author == author && b.Title == title {
			return b, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memBlogs) ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Blog, error) {
	var out []models.Blog
	for _, b := range m.db.blogs {
		if b.Author == author {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memBlogs) AddLike(ctx context.Context, blogID, userID primitive.ObjectID) (int, error) {
	b, ok := m.db.blogs[blogID]
	if !ok {
		// same ambiguity as the conditional update: a missing blog is
		// indistinguishable from a duplicate like
		return 0, store.ErrAlreadyLiked
	}
	for _, id := range b.Likes {
		if id == userID {
			return 0, store.ErrAlreadyLiked
		}
	}
	b.Likes = append(b.Likes, userID)
	return len(b.Likes), nil
}

func (m *memBlogs) LikeWindow(ctx context.Context, blogID primitive.ObjectID, skip, limit int) ([]primitive.ObjectID, error) {
	b, ok := m.db.blogs[blogID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return window(b.Likes, skip, limit), nil
}

func (m *memBlogs) CommentWindow(ctx context.Context, blogID primitive.ObjectID, skip, limit int) ([]primitive.ObjectID, error) {
	b, ok := m.db.blogs[blogID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return window(b.Comments, skip, limit), nil
}

func window(ids []primitive.ObjectID, skip, limit int) []primitive.ObjectID {
	if skip >= len(ids) {
		return []primitive.ObjectID{}
	}
	end := skip + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[skip:end]
}

func (m *memBlogs) AppendComment(ctx context.Context, blogID, commentID primitive.ObjectID) error {
	b, ok := m.db.blogs[blogID]
	if !ok {
		return store.ErrNotFound
	}
	b.Comments = append(b.Comments, commentID)
	return nil
}

type memComments struct{ db *memDB }

func (m *memComments) Insert(ctx context.Context, cm *models.Comment) error {
	cm.ID = primitive.NewObjectID()
	m.db.comments[cm.ID] = cm
	return nil
}

func (m *memComments) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	out := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if cm, ok := m.db.comments[id]; ok {
			out = append(out, *cm)
		}
	}
	return out, nil
}

type memCodes struct{ db *memDB }

func (m *memCodes) Upsert(ctx context.Context, code models.ValidationCode) error {
	if old, ok := m.db.codes[code.Email]; ok {
		code.ID = old.ID
	} else {
		code.ID = primitive.NewObjectID()
	}
	m.db.codes[code.Email] = code
	return nil
}

func (m *memCodes) Find(ctx context.Context, email, code string) (*models.ValidationCode, error) {
	vc, ok := m.db.codes[email]
	if !ok || vc.Code != code {
		return nil, store.ErrNotFound
	}
	return &vc, nil
}

func (m *memCodes) Delete(ctx context.Context, id primitive.ObjectID) error {
	for email, vc := range m.db.codes {
		if vc.ID == id {
			delete(m.db.codes, email)
			return nil
		}
	}
	return nil
}

type fakeSessions struct {
	byToken map[string]primitive.ObjectID
	next    int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: make(map[string]primitive.ObjectID)}
}

func (s *fakeSessions) Create(ctx context.Context, userID primitive.ObjectID) (string, error) {
	s.next++
	token := fmt.Sprintf("token-%d", s.next)
	s.byToken[token] = userID
	return token, nil
}

func (s *fakeSessions) Resolve(ctx context.Context, token string) (models.Session, error) {
	userID, ok := s.byToken[token]
	if !ok {
		return models.Session{}, fmt.Errorf("session not found")
	}
	return models.Session{Token: token, UserID: userID}, nil
}

func (s *fakeSessions) Delete(ctx context.Context, token string) error {
	delete(s.byToken, token)
	return nil
}

type fakeMailer struct {
	sent []string // recipient addresses
	fail bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

type fakeLimiter struct {
	deny   bool
	marked []string
}

func (l *fakeLimiter) CanSend(ctx context.Context, key string) (bool, string) {
	if l.deny {
		return false, "too many codes requested, try again in an hour"
	}
	return true, ""
}

func (l *fakeLimiter) MarkSent(ctx context.Context, key string) {
	l.marked = append(l.marked, key)
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

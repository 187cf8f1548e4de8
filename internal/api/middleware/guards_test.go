package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platescout/platescout/internal/domain/entities"
	"github.com/platescout/platescout/internal/domain/repositories"
	"github.com/platescout/platescout/internal/session"
	"github.com/platescout/platescout/internal/web"
	apperrors "github.com/platescout/platescout/pkg/errors"
)

type fakeRestaurantRepo struct {
	restaurants map[string]*entities.Restaurant
}

func (f *fakeRestaurantRepo) Create(_ context.Context, r *entities.Restaurant) (*entities.Restaurant, error) {
	f.restaurants[r.ID] = r
	return r, nil
}

func (f *fakeRestaurantRepo) GetByID(_ context.Context, id string) (*entities.Restaurant, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("The restaurant does not exist")
	}
	return r, nil
}

func (f *fakeRestaurantRepo) Update(_ context.Context, r *entities.Restaurant) error {
	f.restaurants[r.ID] = r
	return nil
}

func (f *fakeRestaurantRepo) Delete(_ context.Context, id string) error {
	delete(f.restaurants, id)
	return nil
}

func (f *fakeRestaurantRepo) Find(_ context.Context, _ repositories.Criteria) ([]*entities.Restaurant, error) {
	return nil, nil
}

func newTestGuards(t *testing.T) (*Guards, *fakeRestaurantRepo) {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	repo := &fakeRestaurantRepo{restaurants: map[string]*entities.Restaurant{}}
	return NewGuards(repo, renderer), repo
}

func withSession(r *http.Request, sess *session.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess))
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	g, _ := newTestGuards(t)
	next, called := okHandler()

	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/read", nil), &session.Session{})
	g.RequireLogin(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, *called)
}

func TestRequireLoginPassesAuthenticated(t *testing.T) {
	g, _ := newTestGuards(t)
	next, called := okHandler()

	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/read", nil), &session.Session{UserID: "alice"})
	g.RequireLogin(next).ServeHTTP(rec, req)

	assert.True(t, *called)
}

func TestValidIDRejectsMalformedID(t *testing.T) {
	g, _ := newTestGuards(t)
	next, called := okHandler()

	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/display?_id=not-a-uuid", nil), &session.Session{UserID: "alice"})
	g.ValidID(next).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Contains(t, rec.Body.String(), "The ID is invalid")
}

func TestLoadRestaurantNotFound(t *testing.T) {
	g, _ := newTestGuards(t)
	next, called := okHandler()

	id := uuid.NewString()
	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/display?_id="+id, nil), &session.Session{UserID: "alice"})
	g.LoadRestaurant(next).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Contains(t, rec.Body.String(), "The restaurant does not exist")
}

func TestLoadRestaurantAttachesToContext(t *testing.T) {
	g, repo := newTestGuards(t)

	id := uuid.NewString()
	repo.restaurants[id] = &entities.Restaurant{ID: id, Name: "Sushi Go", UserID: "alice"}

	var got *entities.Restaurant
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RestaurantFrom(r.Context())
	})

	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/display?_id="+id, nil), &session.Session{UserID: "alice"})
	g.LoadRestaurant(next).ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, "Sushi Go", got.Name)
}

func TestRequireOwnerRejectsOtherUsers(t *testing.T) {
	g, _ := newTestGuards(t)
	next, called := okHandler()

	restaurant := &entities.Restaurant{ID: "r1", UserID: "alice"}
	req := withSession(httptest.NewRequest(http.MethodGet, "/change?_id=r1", nil), &session.Session{UserID: "bob"})
	req = req.WithContext(context.WithValue(req.Context(), restaurantContextKey, restaurant))

	rec := httptest.NewRecorder()
	g.RequireOwner(next).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Contains(t, rec.Body.String(), "Unauthorized")
}

func TestRequireNotRatedRejectsRepeatRater(t *testing.T) {
	g, _ := newTestGuards(t)
	next, called := okHandler()

	restaurant := &entities.Restaurant{
		ID:     "r1",
		UserID: "alice",
		Grades: []entities.Grade{{Score: 7, User: "bob"}},
	}
	req := withSession(httptest.NewRequest(http.MethodGet, "/rate?_id=r1", nil), &session.Session{UserID: "bob"})
	req = req.WithContext(context.WithValue(req.Context(), restaurantContextKey, restaurant))

	rec := httptest.NewRecorder()
	g.RequireNotRated(next).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Contains(t, rec.Body.String(), "You cannot rate a restaurant twice")
}

func TestChainRunsGuardsInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Guard {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	next, called := okHandler()
	h := Chain(next, mk("first"), mk("second"), mk("third"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.True(t, *called)
}

package room

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roombooking/internal/api"
	"roombooking/internal/apperr"
	"roombooking/internal/user"
)

type stubCatalog struct {
	rooms []Room
	err   error
	calls atomic.Int32
}

func (s *stubCatalog) ListActive(context.Context) ([]Room, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	var out []Room
	for _, rm := range s.rooms {
		if rm.IsActive {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (s *stubCatalog) ListAll(context.Context) ([]Room, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return append([]Room(nil), s.rooms...), nil
}

func (s *stubCatalog) GetByID(_ context.Context, id string) (*Room, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	for _, rm := range s.rooms {
		if rm.ID == id {
			cp := rm
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func sampleRooms() []Room {
	return []Room{
		{ID: "r1", Name: "Library Theater", RoomType: TypeLibraryTheater, Capacity: 200, IsActive: true,
			Facilities: []string{"Stage", "Projector"}, OperatingHours: OperatingHours{Start: "08:00", End: "21:00"}},
		{ID: "r2", Name: "Meeting Room", RoomType: TypeMeetingRoom, Capacity: 20, IsActive: true},
		{ID: "r3", Name: "Old Annex", RoomType: TypeAulaHalf, Capacity: 100, IsActive: false},
	}
}

func router(c Catalog) http.Handler {
	h := Handlers{Catalog: c}
	r := chi.NewRouter()
	r.Get("/rooms", h.List)
	r.Get("/rooms/{id}", h.Get)
	r.Get("/room-types", h.ListTypes)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandlers_ListAndGet(t *testing.T) {
	h := router(&stubCatalog{rooms: sampleRooms()})

	rec := get(h, "/rooms")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []Room `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, "r1", list.Items[0].ID)
	assert.Equal(t, "08:00", list.Items[0].OperatingHours.Start)

	rec = get(h, "/rooms/r2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"capacity":20`)

	for _, id := range []string{"r3", "missing"} {
		rec = get(h, "/rooms/"+id)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.Contains(t, rec.Body.String(), "ROOM_NOT_FOUND")
	}
}

func TestHandlers_Unavailable(t *testing.T) {
	h := router(&stubCatalog{err: apperr.Unavailable(context.DeadlineExceeded)})

	rec := get(h, "/rooms")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"retryable":true`)
}

func TestHandlers_ListTypes(t *testing.T) {
	rec := get(router(&stubCatalog{}), "/room-types")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), string(TypeOutdoorStage))
}

func TestHandlers_AdminListIncludesInactive(t *testing.T) {
	stub := &stubCatalog{rooms: sampleRooms()}
	h := Handlers{Catalog: stub, Inventory: stub}

	serve := func(a *user.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/rooms", nil)
		if a != nil {
			req = req.WithContext(api.WithActor(req.Context(), a))
		}
		rec := httptest.NewRecorder()
		h.AdminList(rec, req)
		return rec
	}

	rec := serve(&user.Actor{UserID: "s1", Role: user.RoleStaff})
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []Room `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 3)
	assert.Equal(t, "r3", list.Items[2].ID)
	assert.False(t, list.Items[2].IsActive)

	assert.Equal(t, http.StatusForbidden, serve(&user.Actor{UserID: "u1", Role: user.RoleUser}).Code)
	assert.Equal(t, http.StatusForbidden, serve(nil).Code)
}

func TestDecodeHours(t *testing.T) {
	var h OperatingHours
	decodeHours("r1", []byte(`{"start":"07:30","end":"20:00"}`), &h)
	assert.Equal(t, OperatingHours{Start: "07:30", End: "20:00"}, h)

	hook := test.NewGlobal()
	defer hook.Reset()
	h = OperatingHours{}
	decodeHours("r2", []byte(`{"start":`), &h)
	assert.Equal(t, OperatingHours{}, h)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "r2", hook.LastEntry().Data["room_id"])

	hook.Reset()
	decodeHours("r3", nil, &h)
	assert.Empty(t, hook.AllEntries())
}

func TestParseType(t *testing.T) {
	for _, ti := range Types() {
		got, err := ParseType(string(ti.Type))
		require.NoError(t, err)
		assert.Equal(t, ti.Type, got)
		assert.Positive(t, ti.DefaultCapacity)
	}
	_, err := ParseType("ballroom")
	assert.Error(t, err)
}

// unreachableRedis points at a closed port so every command fails fast.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCachedCatalog_FallsThroughWhenRedisDown(t *testing.T) {
	next := &stubCatalog{rooms: sampleRooms()}
	rdb := unreachableRedis()
	defer rdb.Close()
	c := NewCachedCatalog(next, rdb, time.Minute)

	rooms, err := c.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	rm, err := c.GetByID(context.Background(), "r3")
	require.NoError(t, err)
	assert.False(t, rm.IsActive)

	_, err = c.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.EqualValues(t, 3, next.calls.Load())
	assert.Error(t, c.Invalidate(context.Background(), "r1"))
}

func TestCachedCatalog_PropagatesSourceErrors(t *testing.T) {
	next := &stubCatalog{err: apperr.Unavailable(context.Canceled)}
	rdb := unreachableRedis()
	defer rdb.Close()

	_, err := NewCachedCatalog(next, rdb, 0).ListActive(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

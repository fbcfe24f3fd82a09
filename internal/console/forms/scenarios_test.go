package forms

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vova4o/labconsole/internal/console/handlers"
	"github.com/vova4o/labconsole/internal/console/listview"
	"github.com/vova4o/labconsole/internal/console/models"
	"github.com/vova4o/labconsole/internal/console/toast"
	"github.com/vova4o/labconsole/package/logger"
)

// fakeClientAPI serves the Client resource from memory and counts requests
type fakeClientAPI struct {
	mu      sync.Mutex
	clients []models.Client
	nextID  int
	calls   map[string]int
	deleted []string
}

func newFakeClientAPI(clients ...models.Client) *fakeClientAPI {
	return &fakeClientAPI{clients: clients, nextID: 100, calls: map[string]int{}}
}

func (f *fakeClientAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[r.Method+" "+r.URL.Path]++
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	switch r.Method + " " + r.URL.Path {
	case "GET /api/Client/GetAll":
		resp, _ := json.Marshal(map[string]interface{}{"success": true, "resource": f.clients})
		w.Write(resp)
	case "POST /api/Client/Add":
		body, _ := io.ReadAll(r.Body)
		var c models.Client
		if err := json.Unmarshal(body, &c); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.nextID++
		c.ID = f.nextID
		f.clients = append(f.clients, c)
		io.WriteString(w, `{"success":true}`)
	case "DELETE /api/Client/Delete":
		id := r.URL.Query().Get("id")
		f.deleted = append(f.deleted, id)
		n, _ := strconv.Atoi(id)
		kept := f.clients[:0]
		for _, c := range f.clients {
			if c.ID != n {
				kept = append(kept, c)
			}
		}
		f.clients = kept
		io.WriteString(w, `{"success":true}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeClientAPI) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

type clientScreen struct {
	api   *fakeClientAPI
	view  *listview.ListView[models.Client]
	form  *Controller[ClientDraft]
	store *handlers.Resource[models.Client]
	rec   *toast.Recorder
}

func newClientScreen(t *testing.T, seed ...models.Client) *clientScreen {
	api := newFakeClientAPI(seed...)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	log := logger.NewLogger("error")
	client := handlers.NewHTTPClient(srv.URL+"/api", srv.URL, srv.URL+"/fcm", srv.Client(), log)
	store := client.Clients()
	rec := &toast.Recorder{}

	view := listview.New(listview.Options[models.Client]{
		PageSize: 7,
		Field:    func(c models.Client) string { return c.Phone },
		Fetch:    store.GetAll,
	})

	form := NewController(Config[ClientDraft]{
		Name:     "Client",
		Validate: func(d ClientDraft, _ State) error { return ValidateClient(d, view) },
		Submit: func(ctx context.Context, mode State, d ClientDraft) error {
			if mode == OpenEdit {
				return store.Update(ctx, d.ToModel())
			}
			return store.Add(ctx, d.ToModel())
		},
		Refresh:  view.Refresh,
		Notifier: rec,
		Logger:   log,
	})

	require.NoError(t, view.Refresh(context.Background()))
	return &clientScreen{api: api, view: view, form: form, store: store, rec: rec}
}

func TestAddClientScenario(t *testing.T) {
	s := newClientScreen(t, models.Client{ID: 1, Name: "Ali", Phone: "0111111111"})

	require.NoError(t, s.form.OpenCreate(NewClientDraft()))
	require.NoError(t, s.form.Edit(func(d *ClientDraft) {
		d.Name = "Sara"
		d.Phone = "0123456789"
	}))
	require.NoError(t, s.form.Submit(context.Background()))

	assert.Equal(t, 1, s.api.count("POST /api/Client/Add"))
	assert.Equal(t, 2, s.api.count("GET /api/Client/GetAll"))
	assert.Equal(t, Closed, s.form.State())

	s.view.SetSearch("0123456789")
	found := s.view.Filtered()
	require.Len(t, found, 1)
	assert.Equal(t, "Sara", found[0].Name)
	assert.Equal(t, GenderMale, found[0].Gender)

	last, _ := s.rec.Last()
	assert.Equal(t, toast.Success, last.Kind)
}

func TestShortPhoneNeverReachesServer(t *testing.T) {
	s := newClientScreen(t)

	require.NoError(t, s.form.OpenCreate(NewClientDraft()))
	require.NoError(t, s.form.Edit(func(d *ClientDraft) {
		d.Name = "Sara"
		d.Phone = "123"
	}))

	err := s.form.Submit(context.Background())
	assert.True(t, IsValidation(err))
	assert.Equal(t, 0, s.api.count("POST /api/Client/Add"))
	assert.Equal(t, OpenCreate, s.form.State())

	last, _ := s.rec.Last()
	assert.Equal(t, toast.Error, last.Kind)
	assert.Equal(t, "Phone must be exactly 10 digits", last.Message)
}

func TestDeleteScenario(t *testing.T) {
	s := newClientScreen(t,
		models.Client{ID: 41, Name: "Keep", Phone: "0111111111"},
		models.Client{ID: 42, Name: "Drop", Phone: "0122222222"},
	)

	require.NoError(t, Remove(context.Background(), 42, s.store, s.view.Refresh, s.rec, "Client"))

	assert.Equal(t, 1, s.api.count("DELETE /api/Client/Delete"))
	assert.Equal(t, []string{"42"}, s.api.deleted)

	_, ok := s.view.Find(42)
	assert.False(t, ok)
	assert.Len(t, s.view.Page(), 1)
	assert.Equal(t, 1, s.rec.Count(toast.Success))
}

func TestCategoryRankConflictScenario(t *testing.T) {
	view := listview.New(listview.Options[models.Category]{
		Less: func(a, b models.Category) bool { return a.OrderRank < b.OrderRank },
	})
	view.Replace([]models.Category{
		{ID: 1, Name: "Blood", OrderRank: 1},
		{ID: 2, Name: "Hormones", OrderRank: 3},
	})

	submitted := 0
	rec := &toast.Recorder{}
	form := NewController(Config[CategoryDraft]{
		Name:     "Category",
		Validate: func(d CategoryDraft, _ State) error { return ValidateCategory(d, view) },
		Submit: func(context.Context, State, CategoryDraft) error {
			submitted++
			return nil
		},
		Notifier: rec,
		Logger:   logger.NewLogger("error"),
	})

	require.NoError(t, form.OpenCreate(NewCategoryDraft(view.Items())))
	assert.Equal(t, "4", form.Draft().OrderRank)

	require.NoError(t, form.Edit(func(d *CategoryDraft) {
		d.Name = "Vitamins"
		d.OrderRank = "3"
	}))

	err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3")
	assert.Equal(t, "Order rank 3 is already used. Available ranks: 2, 4, 5, 6", err.Error())
	assert.Equal(t, 0, submitted)
}

package resources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hallbook/internal/users"
	"hallbook/pkg/retry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type memoryRepo struct {
	items []Resource
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*Resource, error) {
	for i := range m.items {
		if m.items[i].ID.String() == id {
			return &m.items[i], nil
		}
	}
	return nil, ErrResourceNotFound
}

func (m *memoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Resource, error) {
	var out []Resource
	for _, r := range m.items {
		if r.HallOwnerID.String() == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type ownerDirectory map[string]*users.User

func (d ownerDirectory) GetHallOwner(ctx context.Context, id string) (*users.User, error) {
	u, ok := d[id]
	if !ok || u.Role != users.RoleHallOwner {
		return nil, users.ErrHallOwnerNotFound
	}
	return u, nil
}

var testPolicy = retry.Policy{Timeout: time.Second, Retries: 1, Backoff: time.Millisecond}

func fixture() (*users.User, *memoryRepo) {
	owner := &users.User{ID: uuid.New(), Role: users.RoleHallOwner, Email: "owner@example.com"}
	repo := &memoryRepo{items: []Resource{
		{ID: uuid.New(), HallOwnerID: owner.ID, Name: "main Hall", Capacity: 200},
		{ID: uuid.New(), HallOwnerID: owner.ID, Name: "Annex", Type: "room", Capacity: 40},
		{ID: uuid.New(), HallOwnerID: uuid.New(), Name: "Other owner's hall"},
	}}
	return owner, repo
}

func TestListPublicSortsAndFillsOwnerFallbacks(t *testing.T) {
	owner, repo := fixture()
	svc := NewService(repo, ownerDirectory{owner.ID.String(): owner}, nil, testPolicy)

	got, err := svc.ListPublic(context.Background(), owner.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Resources) != 2 {
		t.Fatalf("got %d resources, want 2", len(got.Resources))
	}
	if got.Resources[0].Name != "Annex" || got.Resources[1].Name != "main Hall" {
		t.Errorf("unexpected order: %s, %s", got.Resources[0].Name, got.Resources[1].Name)
	}
	if got.Resources[1].Type != DefaultType {
		t.Errorf("type = %q, want default %q", got.Resources[1].Type, DefaultType)
	}

	want := HallOwnerInfo{
		Name:         "Hall Owner",
		Address:      "Address not provided",
		Phone:        "Phone not provided",
		Email:        "owner@example.com",
		BusinessName: "Business Name",
	}
	if got.HallOwner != want {
		t.Errorf("hallOwner = %+v, want %+v", got.HallOwner, want)
	}
}

func TestListPublicUnknownOwner(t *testing.T) {
	_, repo := fixture()
	svc := NewService(repo, ownerDirectory{}, nil, testPolicy)

	if _, err := svc.ListPublic(context.Background(), uuid.NewString()); !errors.Is(err, users.ErrHallOwnerNotFound) {
		t.Fatalf("err = %v, want ErrHallOwnerNotFound", err)
	}
}

func TestGetPublicResourcesHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	owner, repo := fixture()
	owner.Name = "Priya"
	controller := NewController(NewService(repo, ownerDirectory{owner.ID.String(): owner}, nil, testPolicy))

	r := gin.New()
	SetupResourceRoutes(r.Group("/api/v1"), controller)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resources/public/"+owner.ID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var body struct {
		Data PublicResourcesResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.HallOwner.Name != "Priya" || body.Data.HallOwner.BusinessName != "Priya" {
		t.Errorf("hallOwner = %+v", body.Data.HallOwner)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resources/public/"+uuid.NewString(), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown owner status = %d, want 404", w.Code)
	}
}

package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"hallbook/internal/shared/middleware"
	"hallbook/pkg/retry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu   sync.Mutex
	list []Notification
}

func (m *memoryRepo) Create(ctx context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.list = append(m.list, *n)
	return nil
}

func (m *memoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notification
	for _, n := range m.list {
		if n.UserID.String() == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for _, n := range m.list {
		if n.UserID.String() == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (m *memoryRepo) MarkRead(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID.String() == id && m.list[i].UserID.String() == userID {
			m.list[i].IsRead = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (m *memoryRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for i := range m.list {
		if m.list[i].UserID.String() == userID && !m.list[i].IsRead {
			m.list[i].IsRead = true
			c++
		}
	}
	return c, nil
}

func (m *memoryRepo) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID.String() == id && m.list[i].UserID.String() == userID {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (m *memoryRepo) DeleteAll(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.list[:0]
	var c int64
	for _, n := range m.list {
		if n.UserID.String() == userID {
			c++
			continue
		}
		kept = append(kept, n)
	}
	m.list = kept
	return c, nil
}

var testPolicy = retry.Policy{Timeout: time.Second, Retries: 0, Backoff: time.Millisecond}

func TestCreateNotificationPublishesToSubscribers(t *testing.T) {
	hub := NewLocalHub()
	svc := NewService(&memoryRepo{}, hub, testPolicy)
	user := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, unsubscribe, err := svc.Subscribe(ctx, user.String())
	if err != nil {
		t.Fatal(err)
	}
	defer unsubscribe()

	if err := svc.CreateNotification(context.Background(), &Notification{UserID: user, Type: TypeNewBooking, Title: "New Booking Request"}); err != nil {
		t.Fatal(err)
	}
	// other users' notifications are not delivered
	if err := svc.CreateNotification(context.Background(), &Notification{UserID: uuid.New(), Type: TypeNewBooking, Title: "x"}); err != nil {
		t.Fatal(err)
	}

	select {
	case n := <-updates:
		if n.Title != "New Booking Request" {
			t.Errorf("got %q", n.Title)
		}
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}
	select {
	case n := <-updates:
		t.Errorf("unexpected delivery %+v", n)
	default:
	}
}

func TestCreateNotificationRequiresRecipient(t *testing.T) {
	svc := NewService(&memoryRepo{}, nil, testPolicy)
	if err := svc.CreateNotification(context.Background(), &Notification{Title: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestLocalHubUnsubscribeOnContextDone(t *testing.T) {
	hub := NewLocalHub()
	ctx, cancel := context.WithCancel(context.Background())
	updates, _, _ := hub.Subscribe(ctx, "u1")
	if hub.subscriberCount("u1") != 1 {
		t.Fatal("subscriber not registered")
	}

	cancel()
	select {
	case _, ok := <-updates:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
	if hub.subscriberCount("u1") != 0 {
		t.Error("subscriber not removed")
	}
}

func TestListCountsUnread(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, nil, testPolicy)
	user := uuid.New()
	for i := 0; i < 3; i++ {
		svc.CreateNotification(context.Background(), &Notification{UserID: user, Title: "n", CreatedAt: time.Now().Add(time.Duration(i) * time.Minute)})
	}
	repo.list[0].IsRead = true

	list, err := svc.List(context.Background(), user.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Notifications) != 3 || list.UnreadCount != 2 {
		t.Fatalf("got %d notifications, %d unread", len(list.Notifications), list.UnreadCount)
	}
	if !list.Notifications[0].CreatedAt.After(list.Notifications[2].CreatedAt) {
		t.Error("expected newest first")
	}
}

func newTestRouter(svc Service) (*gin.Engine, *Controller) {
	gin.SetMode(gin.TestMode)
	controller := NewController(svc)
	controller.pingInterval = 20 * time.Millisecond

	r := gin.New()
	auth := func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			middleware.SetSession(c, &middleware.Session{UserID: id, Role: "customer"})
		}
		c.Next()
	}
	SetupNotificationRoutes(r.Group("/api/v1"), controller, auth, auth)
	return r, controller
}

func TestNotificationHandlers(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo, nil, testPolicy)
	r, _ := newTestRouter(svc)
	user := uuid.New()
	n := &Notification{UserID: user, Title: "hello"}
	svc.CreateNotification(context.Background(), n)

	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("X-Test-User", user.String())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/api/v1/notifications")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var body struct {
		Data ListResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.UnreadCount != 1 {
		t.Errorf("unreadCount = %d", body.Data.UnreadCount)
	}

	if w := do(http.MethodPatch, "/api/v1/notifications/"+n.ID.String()+"/read"); w.Code != http.StatusOK {
		t.Errorf("mark read status = %d", w.Code)
	}
	if w := do(http.MethodPatch, "/api/v1/notifications/"+uuid.NewString()+"/read"); w.Code != http.StatusNotFound {
		t.Errorf("mark unknown status = %d", w.Code)
	}
	if w := do(http.MethodDelete, "/api/v1/notifications"); w.Code != http.StatusOK {
		t.Errorf("clear status = %d", w.Code)
	}
	if len(repo.list) != 0 {
		t.Errorf("clear left %d notifications", len(repo.list))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d", w.Code)
	}
}

type syncRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (s *syncRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ResponseRecorder.Write(b)
}

func (s *syncRecorder) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

func (s *syncRecorder) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ResponseRecorder.Flush()
}

func (s *syncRecorder) body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ResponseRecorder.Body.String()
}

func TestStreamSendsSnapshotUpdatesAndPings(t *testing.T) {
	hub := NewLocalHub()
	svc := NewService(&memoryRepo{}, hub, testPolicy)
	r, _ := newTestRouter(svc)
	user := uuid.New()
	svc.CreateNotification(context.Background(), &Notification{UserID: user, Title: "existing"})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/stream", nil).WithContext(ctx)
	req.Header.Set("X-Test-User", user.String())
	w := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for hub.subscriberCount(user.String()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	svc.CreateNotification(context.Background(), &Notification{UserID: user, Title: "fresh"})

	for !strings.Contains(w.body(), "event:ping") {
		if time.Now().After(deadline) {
			t.Fatal("no ping received")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not end after cancellation")
	}

	out := w.body()
	for _, want := range []string{"event:snapshot", "existing", "event:notification", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("stream output missing %q:\n%s", want, out)
		}
	}
}

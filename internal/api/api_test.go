package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pdf_record_service/internal/domain"
)

type stubRecordStore struct {
	createFn    func(ctx context.Context, draft domain.Draft) (domain.Record, error)
	getFn       func(ctx context.Context, id string) (domain.Record, error)
	listFn      func(ctx context.Context) ([]domain.Record, error)
	createCalls int
}

func (s *stubRecordStore) Create(ctx context.Context, draft domain.Draft) (domain.Record, error) {
	s.createCalls++
	if s.createFn == nil {
		return domain.Record{}, errors.New("unexpected Create call")
	}
	return s.createFn(ctx, draft)
}

func (s *stubRecordStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	if s.getFn == nil {
		return domain.Record{}, errors.New("unexpected GetByID call")
	}
	return s.getFn(ctx, id)
}

func (s *stubRecordStore) List(ctx context.Context) ([]domain.Record, error) {
	if s.listFn == nil {
		return nil, errors.New("unexpected List call")
	}
	return s.listFn(ctx)
}

func newTestRouter(t *testing.T, store RecordStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := logtest.NewNullLogger()
	engine := gin.New()
	engine.Use(CORS())

	NewHandler(store, logrus.NewEntry(logger)).Register(engine)
	return engine
}

func testRecord(name string) domain.Record {
	return domain.Record{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     "jane@x.com",
		Phone:     "5551234567",
		Position:  "Engineer",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestListRecordsReturnsStoreOrder(t *testing.T) {
	newest := testRecord("Newest")
	oldest := testRecord("Oldest")

	engine := newTestRouter(t, &stubRecordStore{
		listFn: func(context.Context) ([]domain.Record, error) {
			return []domain.Record{newest, oldest}, nil
		},
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/records", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected HTTP 200, got %d", rr.Code)
	}

	var records []domain.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &records); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if len(records) != 2 || records[0].Name != "Newest" || records[1].Name != "Oldest" {
		t.Fatalf("expected store order preserved, got %+v", records)
	}
}

func TestListRecordsHidesStoreErrorDetail(t *testing.T) {
	engine := newTestRouter(t, &stubRecordStore{
		listFn: func(context.Context) ([]domain.Record, error) {
			return nil, errors.New("connection reset by mongod")
		},
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/records", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected HTTP 500, got %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, MsgServerError) {
		t.Fatalf("expected generic message, got %s", body)
	}
	if strings.Contains(body, "mongod") {
		t.Fatalf("expected internal detail to be hidden, got %s", body)
	}
}

func TestGetRecordByID(t *testing.T) {
	record := testRecord("Jane Doe")

	engine := newTestRouter(t, &stubRecordStore{
		getFn: func(_ context.Context, id string) (domain.Record, error) {
			if id != record.ID.Hex() {
				return domain.Record{}, domain.ErrNotFound
			}
			return record, nil
		},
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/records/"+record.ID.Hex(), nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected HTTP 200, got %d", rr.Code)
	}

	var got domain.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.ID != record.ID || got.Name != record.Name {
		t.Fatalf("expected record %+v, got %+v", record, got)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	engine := newTestRouter(t, &stubRecordStore{
		getFn: func(context.Context, string) (domain.Record, error) {
			return domain.Record{}, domain.ErrNotFound
		},
	})

	for _, id := range []string{primitive.NewObjectID().Hex(), "garbage"} {
		rr := httptest.NewRecorder()
		engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/records/"+id, nil))

		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected HTTP 404 for id %q, got %d", id, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), MsgRecordNotFound) {
			t.Fatalf("expected not-found message, got %s", rr.Body.String())
		}
	}
}

func TestCreateRecordRejectsMissingFields(t *testing.T) {
	store := &stubRecordStore{}
	engine := newTestRouter(t, store)

	bodies := []string{
		`{}`,
		`{"name":"Jane"}`,
		`{"name":"Jane","email":"jane@x.com"}`,
		`{"name":"","email":"jane@x.com","phone":"5551234567"}`,
	}

	for _, body := range bodies {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected HTTP 400 for body %s, got %d", body, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), MsgRequiredFields) {
			t.Fatalf("expected required-fields message, got %s", rr.Body.String())
		}
	}

	if store.createCalls != 0 {
		t.Fatalf("expected no store calls for invalid input, got %d", store.createCalls)
	}
}

func TestCreateRecordPersistsAndReturnsCreated(t *testing.T) {
	assignedID := primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	store := &stubRecordStore{
		createFn: func(_ context.Context, draft domain.Draft) (domain.Record, error) {
			return domain.Record{
				ID:          assignedID,
				Name:        draft.Name,
				Email:       draft.Email,
				Phone:       draft.Phone,
				Position:    draft.Position,
				Description: draft.Description,
				CreatedAt:   now,
			}, nil
		},
	}
	engine := newTestRouter(t, store)

	payload := map[string]string{
		"name":        "Jane Doe",
		"email":       "jane@x.com",
		"phone":       "5551234567",
		"position":    "Engineer",
		"description": "Built X\nShipped Y",
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected HTTP 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created domain.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if created.ID != assignedID {
		t.Fatalf("expected assigned id %s, got %s", assignedID.Hex(), created.ID.Hex())
	}
	if created.Name != payload["name"] || created.Email != payload["email"] ||
		created.Phone != payload["phone"] || created.Position != payload["position"] ||
		created.Description != payload["description"] {
		t.Fatalf("expected submitted values echoed back, got %+v", created)
	}
	if store.createCalls != 1 {
		t.Fatalf("expected exactly one store call, got %d", store.createCalls)
	}
}

func TestCreateRecordStoreFailure(t *testing.T) {
	engine := newTestRouter(t, &stubRecordStore{
		createFn: func(context.Context, domain.Draft) (domain.Record, error) {
			return domain.Record{}, errors.New("insert failed")
		},
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/records",
		strings.NewReader(`{"name":"Jane","email":"jane@x.com","phone":"5551234567"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected HTTP 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), MsgServerError) {
		t.Fatalf("expected generic message, got %s", rr.Body.String())
	}
}

func TestCreateRecordRejectsMalformedBody(t *testing.T) {
	store := &stubRecordStore{}
	engine := newTestRouter(t, store)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/records", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected HTTP 400, got %d", rr.Code)
	}
	if store.createCalls != 0 {
		t.Fatalf("expected no store calls, got %d", store.createCalls)
	}
}

func TestCORSAllowsCrossOrigin(t *testing.T) {
	engine := newTestRouter(t, &stubRecordStore{
		listFn: func(context.Context) ([]domain.Record, error) {
			return []domain.Record{}, nil
		},
	})

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/records", nil))

	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected permissive CORS header, got %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}

	preflight := httptest.NewRecorder()
	engine.ServeHTTP(preflight, httptest.NewRequest(http.MethodOptions, "/api/records", nil))

	if preflight.Code != http.StatusNoContent {
		t.Fatalf("expected HTTP 204 for preflight, got %d", preflight.Code)
	}
}

type stubMongoChecker struct {
	err error
}

func (s stubMongoChecker) Ping(context.Context) error {
	return s.err
}

func TestHealthHandlerOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := logtest.NewNullLogger()

	engine := gin.New()
	NewHealthHandler(stubMongoChecker{err: nil}, logrus.NewEntry(logger)).Register(engine)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected HTTP 200, got %d", rr.Code)
	}

	body := strings.TrimSpace(rr.Body.String())
	if body != `{"status":"ok"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestHealthHandlerMongoError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := logtest.NewNullLogger()

	engine := gin.New()
	NewHealthHandler(stubMongoChecker{err: errors.New("mongo down")}, logrus.NewEntry(logger)).Register(engine)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected HTTP 200, got %d", rr.Code)
	}

	body := strings.TrimSpace(rr.Body.String())
	if body != `{"status":"degraded","mongo":"error"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestHealthHandlerMissingChecker(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := logtest.NewNullLogger()

	engine := gin.New()
	NewHealthHandler(nil, logrus.NewEntry(logger)).Register(engine)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	body := strings.TrimSpace(rr.Body.String())
	if body != `{"status":"degraded","mongo":"error"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

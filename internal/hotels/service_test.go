package hotels

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/aiwlulu/BookEasy/internal/apperror"
)

// mockHotelRepo implements HotelRepository with overridable functions.
type mockHotelRepo struct {
	CreateFn      func(ctx context.Context, hotel *Hotel) error
	FindByIDFn    func(ctx context.Context, id string) (*Hotel, error)
	ListFn        func(ctx context.Context, filter ListFilter) ([]Hotel, error)
	UpdateFn      func(ctx context.Context, hotel *Hotel) error
	DeleteFn      func(ctx context.Context, id string) error
	CountByTypeFn func(ctx context.Context, types []string) ([]TypeCount, error)
	CountByCityFn func(ctx context.Context, cities []string) ([]CityCount, error)
}

func (m *mockHotelRepo) Create(ctx context.Context, hotel *Hotel) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, hotel)
	}
	return nil
}

func (m *mockHotelRepo) FindByID(ctx context.Context, id string) (*Hotel, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("hotel not found")
}

func (m *mockHotelRepo) List(ctx context.Context, filter ListFilter) ([]Hotel, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockHotelRepo) Update(ctx context.Context, hotel *Hotel) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, hotel)
	}
	return nil
}

func (m *mockHotelRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockHotelRepo) CountByType(ctx context.Context, types []string) ([]TypeCount, error) {
	if m.CountByTypeFn != nil {
		return m.CountByTypeFn(ctx, types)
	}
	return nil, nil
}

func (m *mockHotelRepo) CountByCity(ctx context.Context, cities []string) ([]CityCount, error) {
	if m.CountByCityFn != nil {
		return m.CountByCityFn(ctx, cities)
	}
	return nil, nil
}

func assertAppError(t *testing.T, err error, code int, errType string) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected code %d, got %d", code, appErr.Code)
	}
	if appErr.Type != errType {
		t.Errorf("expected type %q, got %q", errType, appErr.Type)
	}
}

// newCachedService wires a mock repo to a real miniredis-backed client.
func newCachedService(t *testing.T, repo *mockHotelRepo) HotelService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewHotelService(repo, rdb, time.Minute)
}

func validHotelInput() HotelInput {
	return HotelInput{
		Name:        "Grand Plaza",
		Type:        "hotel",
		City:        "berlin",
		Address:     "Alexanderplatz 1",
		Distance:    "500m",
		Title:       "City center stay",
		Description: "Close to everything.",
		Price:       120,
		Popular:     true,
	}
}

func TestHotelCreate_Validation(t *testing.T) {
	svc := NewHotelService(&mockHotelRepo{}, nil, 0)

	tests := []struct {
		name   string
		mutate func(*HotelInput)
	}{
		{"missing name", func(in *HotelInput) { in.Name = " " }},
		{"missing type", func(in *HotelInput) { in.Type = "" }},
		{"missing city", func(in *HotelInput) { in.City = "" }},
		{"negative price", func(in *HotelInput) { in.Price = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validHotelInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), input)
			assertAppError(t, err, 400, "bad_request")
		})
	}
}

func TestHotelCreate_SanitizesRichText(t *testing.T) {
	var stored *Hotel
	repo := &mockHotelRepo{
		CreateFn: func(ctx context.Context, hotel *Hotel) error {
			stored = hotel
			return nil
		},
	}
	svc := NewHotelService(repo, nil, 0)

	input := validHotelInput()
	input.Title = `Nice view<script>alert("x")</script>`
	input.Description = `<b>Bold</b> is fine, <iframe src="evil"></iframe> is not`

	hotel, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if stored == nil {
		t.Fatal("expected repository Create to be called")
	}

	if strings.Contains(hotel.Title, "<script") {
		t.Errorf("script tag survived sanitization: %q", hotel.Title)
	}
	if strings.Contains(hotel.Description, "<iframe") {
		t.Errorf("iframe survived sanitization: %q", hotel.Description)
	}
	if !strings.Contains(hotel.Description, "<b>Bold</b>") {
		t.Errorf("benign markup was stripped: %q", hotel.Description)
	}
}

func TestHotelCreate_StoreError(t *testing.T) {
	repo := &mockHotelRepo{
		CreateFn: func(ctx context.Context, hotel *Hotel) error {
			return errors.New("db down")
		},
	}
	svc := NewHotelService(repo, nil, 0)

	_, err := svc.Create(context.Background(), validHotelInput())
	assertAppError(t, err, 400, "bad_request")
}

func TestHotelGet_InvalidID(t *testing.T) {
	svc := NewHotelService(&mockHotelRepo{}, nil, 0)

	_, err := svc.Get(context.Background(), "not-a-uuid")
	assertAppError(t, err, 400, "bad_request")
}

func TestHotelGet_NotFound(t *testing.T) {
	svc := NewHotelService(&mockHotelRepo{}, nil, 0)

	_, err := svc.Get(context.Background(), "6f1c9a1e-0000-4000-8000-000000000001")
	assertAppError(t, err, 404, "not_found")
}

func TestHotelDelete_NotFoundPassthrough(t *testing.T) {
	repo := &mockHotelRepo{
		DeleteFn: func(ctx context.Context, id string) error {
			return apperror.NewNotFound("hotel not found")
		},
	}
	svc := NewHotelService(repo, nil, 0)

	err := svc.Delete(context.Background(), "6f1c9a1e-0000-4000-8000-000000000001")
	assertAppError(t, err, 404, "not_found")
}

func TestCountByType_CachesResult(t *testing.T) {
	calls := 0
	repo := &mockHotelRepo{
		CountByTypeFn: func(ctx context.Context, types []string) ([]TypeCount, error) {
			calls++
			return []TypeCount{{Type: "hotel", Count: 3}}, nil
		},
	}
	svc := newCachedService(t, repo)

	for i := 0; i < 3; i++ {
		counts, err := svc.CountByType(context.Background(), []string{"hotel"})
		if err != nil {
			t.Fatalf("CountByType failed: %v", err)
		}
		if len(counts) != 1 || counts[0].Count != 3 {
			t.Fatalf("unexpected counts: %+v", counts)
		}
	}

	if calls != 1 {
		t.Errorf("expected one repository call, got %d", calls)
	}
}

func TestCountByType_DistinctFiltersDistinctEntries(t *testing.T) {
	var seen [][]string
	repo := &mockHotelRepo{
		CountByTypeFn: func(ctx context.Context, types []string) ([]TypeCount, error) {
			seen = append(seen, types)
			return []TypeCount{}, nil
		},
	}
	svc := newCachedService(t, repo)

	if _, err := svc.CountByType(context.Background(), []string{"hotel"}); err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}
	if _, err := svc.CountByType(context.Background(), []string{"cabin"}); err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}

	if len(seen) != 2 {
		t.Errorf("expected two repository calls for two filters, got %d", len(seen))
	}
}

func TestMutation_InvalidatesCountCache(t *testing.T) {
	calls := 0
	repo := &mockHotelRepo{
		CountByCityFn: func(ctx context.Context, cities []string) ([]CityCount, error) {
			calls++
			return []CityCount{{City: "berlin", Count: calls}}, nil
		},
	}
	svc := newCachedService(t, repo)

	counts, err := svc.CountByCity(context.Background(), nil)
	if err != nil {
		t.Fatalf("CountByCity failed: %v", err)
	}
	if counts[0].Count != 1 {
		t.Fatalf("unexpected initial count: %+v", counts)
	}

	// A create bumps the cache generation, so the next read must hit the
	// repository again.
	if _, err := svc.Create(context.Background(), validHotelInput()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	counts, err = svc.CountByCity(context.Background(), nil)
	if err != nil {
		t.Fatalf("CountByCity failed: %v", err)
	}
	if counts[0].Count != 2 {
		t.Errorf("expected fresh count after mutation, got %+v", counts)
	}
	if calls != 2 {
		t.Errorf("expected two repository calls around a mutation, got %d", calls)
	}
}

func TestCountByCity_WorksWithoutRedis(t *testing.T) {
	calls := 0
	repo := &mockHotelRepo{
		CountByCityFn: func(ctx context.Context, cities []string) ([]CityCount, error) {
			calls++
			return []CityCount{{City: "berlin", Count: 5}}, nil
		},
	}
	svc := NewHotelService(repo, nil, time.Minute)

	for i := 0; i < 2; i++ {
		counts, err := svc.CountByCity(context.Background(), nil)
		if err != nil {
			t.Fatalf("CountByCity failed: %v", err)
		}
		if counts[0].Count != 5 {
			t.Fatalf("unexpected counts: %+v", counts)
		}
	}

	// Without a cache every read goes to the database.
	if calls != 2 {
		t.Errorf("expected two repository calls without redis, got %d", calls)
	}
}

func TestHotelUpdate_ReturnsUpdatedRecord(t *testing.T) {
	const id = "6f1c9a1e-0000-4000-8000-000000000001"

	var updated *Hotel
	repo := &mockHotelRepo{
		UpdateFn: func(ctx context.Context, hotel *Hotel) error {
			updated = hotel
			return nil
		},
		FindByIDFn: func(ctx context.Context, gotID string) (*Hotel, error) {
			if gotID != id {
				t.Errorf("expected lookup of %s, got %s", id, gotID)
			}
			return updated, nil
		},
	}
	svc := NewHotelService(repo, nil, 0)

	input := validHotelInput()
	input.Name = "Renamed Plaza"

	hotel, err := svc.Update(context.Background(), id, input)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if hotel.Name != "Renamed Plaza" {
		t.Errorf("expected updated name, got %q", hotel.Name)
	}
	if hotel.ID != id {
		t.Errorf("expected id to be preserved, got %q", hotel.ID)
	}
}

func TestHotelUpdate_NotFoundPassthrough(t *testing.T) {
	repo := &mockHotelRepo{
		UpdateFn: func(ctx context.Context, hotel *Hotel) error {
			return apperror.NewNotFound("hotel not found")
		},
	}
	svc := NewHotelService(repo, nil, 0)

	_, err := svc.Update(context.Background(), "6f1c9a1e-0000-4000-8000-000000000001", validHotelInput())
	assertAppError(t, err, 404, "not_found")
}

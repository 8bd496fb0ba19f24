package hotels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aiwlulu/BookEasy/internal/apperror"
	"github.com/aiwlulu/BookEasy/internal/sanitize"
)

// countsGenKey is the Redis key holding the cache generation counter for
// the aggregation counts. Every hotel mutation bumps it, which orphans all
// previously cached count entries until their TTL reaps them.
const countsGenKey = "hotels:counts:gen"

// HotelService defines the business logic contract for hotel records.
type HotelService interface {
	Create(ctx context.Context, input HotelInput) (*Hotel, error)
	Get(ctx context.Context, id string) (*Hotel, error)
	List(ctx context.Context, filter ListFilter) ([]Hotel, error)
	Update(ctx context.Context, id string, input HotelInput) (*Hotel, error)
	Delete(ctx context.Context, id string) error
	CountByType(ctx context.Context, types []string) ([]TypeCount, error)
	CountByCity(ctx context.Context, cities []string) ([]CityCount, error)
}

// hotelService implements HotelService with a MariaDB repository and a
// Redis cache in front of the aggregation counts. The counts back the
// client's landing page and are read far more often than hotels change.
type hotelService struct {
	repo     HotelRepository
	redis    *redis.Client
	cacheTTL time.Duration
}

// NewHotelService creates a new hotel service. rdb may be nil, in which
// case the aggregation counts are computed from the database every time.
func NewHotelService(repo HotelRepository, rdb *redis.Client, cacheTTL time.Duration) HotelService {
	return &hotelService{
		repo:     repo,
		redis:    rdb,
		cacheTTL: cacheTTL,
	}
}

// Create persists a new hotel after sanitizing its rich-text fields.
func (s *hotelService) Create(ctx context.Context, input HotelInput) (*Hotel, error) {
	if msg := validateInput(&input); msg != "" {
		return nil, apperror.NewBadRequest(msg)
	}

	now := time.Now().UTC()
	hotel := &Hotel{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Type:        strings.TrimSpace(input.Type),
		City:        strings.TrimSpace(input.City),
		Address:     strings.TrimSpace(input.Address),
		Distance:    strings.TrimSpace(input.Distance),
		Title:       sanitize.HTML(input.Title),
		Description: sanitize.HTML(input.Description),
		Price:       input.Price,
		Popular:     input.Popular,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, hotel); err != nil {
		return nil, apperror.NewBadRequest("unable to create hotel, check the input format").Wrap(err)
	}

	s.invalidateCounts(ctx)

	slog.Info("hotel created",
		slog.String("hotel_id", hotel.ID),
		slog.String("name", hotel.Name),
	)

	return hotel, nil
}

// Get returns a single hotel by ID.
func (s *hotelService) Get(ctx context.Context, id string) (*Hotel, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NewBadRequest("invalid hotel id")
	}

	hotel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("fetching hotel: %w", err))
	}

	return hotel, nil
}

// List returns hotels matching the filter.
func (s *hotelService) List(ctx context.Context, filter ListFilter) ([]Hotel, error) {
	hotels, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing hotels: %w", err))
	}
	return hotels, nil
}

// Update replaces the mutable fields of an existing hotel.
func (s *hotelService) Update(ctx context.Context, id string, input HotelInput) (*Hotel, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NewBadRequest("invalid hotel id")
	}
	if msg := validateInput(&input); msg != "" {
		return nil, apperror.NewBadRequest(msg)
	}

	hotel := &Hotel{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Type:        strings.TrimSpace(input.Type),
		City:        strings.TrimSpace(input.City),
		Address:     strings.TrimSpace(input.Address),
		Distance:    strings.TrimSpace(input.Distance),
		Title:       sanitize.HTML(input.Title),
		Description: sanitize.HTML(input.Description),
		Price:       input.Price,
		Popular:     input.Popular,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Update(ctx, hotel); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.NewBadRequest("unable to update hotel, check the input format").Wrap(err)
	}

	s.invalidateCounts(ctx)

	return s.Get(ctx, id)
}

// Delete removes a hotel.
func (s *hotelService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewBadRequest("invalid hotel id")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperror.NewInternal(fmt.Errorf("deleting hotel: %w", err))
	}

	s.invalidateCounts(ctx)

	slog.Info("hotel deleted", slog.String("hotel_id", id))

	return nil
}

// CountByType returns hotel counts per type, served from cache when possible.
func (s *hotelService) CountByType(ctx context.Context, types []string) ([]TypeCount, error) {
	key := s.countsKey("type", types)

	var cached []TypeCount
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	counts, err := s.repo.CountByType(ctx, types)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("counting by type: %w", err))
	}

	s.writeCache(ctx, key, counts)
	return counts, nil
}

// CountByCity returns hotel counts per city, served from cache when possible.
func (s *hotelService) CountByCity(ctx context.Context, cities []string) ([]CityCount, error) {
	key := s.countsKey("city", cities)

	var cached []CityCount
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	counts, err := s.repo.CountByCity(ctx, cities)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("counting by city: %w", err))
	}

	s.writeCache(ctx, key, counts)
	return counts, nil
}

// --- Count cache ---

// countsKey builds the cache key for an aggregation query, scoped to the
// current cache generation so mutations invalidate every cached filter
// combination at once.
func (s *hotelService) countsKey(kind string, filter []string) string {
	var gen int64
	if s.redis != nil {
		g, err := s.redis.Get(context.Background(), countsGenKey).Int64()
		if err != nil && err != redis.Nil {
			slog.Warn("reading counts cache generation", slog.Any("error", err))
		}
		gen = g
	}
	return fmt.Sprintf("hotels:count:%s:%d:%s", kind, gen, strings.Join(filter, ","))
}

// readCache loads a cached aggregation result into dest. Returns false on
// miss or any Redis/decode failure -- the caller falls back to the database.
func (s *hotelService) readCache(ctx context.Context, key string, dest any) bool {
	if s.redis == nil {
		return false
	}

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("reading counts cache", slog.String("key", key), slog.Any("error", err))
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		slog.Warn("decoding counts cache", slog.String("key", key), slog.Any("error", err))
		return false
	}

	return true
}

// writeCache stores an aggregation result with the configured TTL.
// Failures are logged and ignored -- the cache is an optimization only.
func (s *hotelService) writeCache(ctx context.Context, key string, value any) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		slog.Warn("writing counts cache", slog.String("key", key), slog.Any("error", err))
	}
}

// invalidateCounts bumps the cache generation after any hotel mutation.
func (s *hotelService) invalidateCounts(ctx context.Context) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Incr(ctx, countsGenKey).Err(); err != nil {
		slog.Warn("invalidating counts cache", slog.Any("error", err))
	}
}

// validateInput performs basic server-side validation on a hotel payload.
// Returns an error message or empty string.
func validateInput(input *HotelInput) string {
	if strings.TrimSpace(input.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(input.Type) == "" {
		return "type is required"
	}
	if strings.TrimSpace(input.City) == "" {
		return "city is required"
	}
	if input.Price < 0 {
		return "price must not be negative"
	}
	return ""
}

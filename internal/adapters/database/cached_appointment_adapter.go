package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/providers"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/observability"
)

// CachedAppointmentAdapter wraps AppointmentRepository with a token lookup
// cache. Check-in resolution is the hot read path: the token never changes
// once assigned, so the token-to-id mapping caches safely while the
// appointment row itself is always read fresh.
type CachedAppointmentAdapter struct {
	adapter repositories.AppointmentRepository
	cache   providers.CacheProvider
}

// NewCachedAppointmentAdapter creates a new cached appointment adapter
func NewCachedAppointmentAdapter(adapter repositories.AppointmentRepository, cache providers.CacheProvider) repositories.AppointmentRepository {
	return &CachedAppointmentAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// tokenCacheTTL bounds staleness after an administrative delete
const tokenCacheTTL = 3600

func tokenCacheKey(token string) string {
	return fmt.Sprintf("appointment:token:%s", token)
}

// GetByCheckInToken resolves a token through the cache, falling back to storage
func (a *CachedAppointmentAdapter) GetByCheckInToken(ctx context.Context, token string) (*entities.Appointment, error) {
	cacheKey := tokenCacheKey(token)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		if id, err := strconv.ParseInt(string(cached), 10, 64); err == nil {
			appointment, err := a.adapter.GetByID(ctx, id)
			if err == nil {
				return appointment, nil
			}
			// Stale mapping, fall through to storage
			if err := a.cache.Delete(ctx, cacheKey); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to evict stale token mapping")
			}
		}
	}

	appointment, err := a.adapter.GetByCheckInToken(ctx, token)
	if err != nil {
		return nil, err
	}

	id := []byte(strconv.FormatInt(appointment.ID, 10))
	if err := a.cache.Set(ctx, cacheKey, id, tokenCacheTTL); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache token mapping")
	}

	return appointment, nil
}

// Delete removes an appointment and evicts its token mapping
func (a *CachedAppointmentAdapter) Delete(ctx context.Context, id int64) error {
	appointment, err := a.adapter.GetByID(ctx, id)
	if err == nil && appointment.CheckInToken != "" {
		if err := a.cache.Delete(ctx, tokenCacheKey(appointment.CheckInToken)); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to evict token mapping")
		}
	}
	return a.adapter.Delete(ctx, id)
}

// The remaining operations pass through to the underlying adapter.

func (a *CachedAppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	return a.adapter.Create(ctx, appointment)
}

func (a *CachedAppointmentAdapter) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	return a.adapter.GetByID(ctx, id)
}

func (a *CachedAppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	return a.adapter.Update(ctx, appointment)
}

func (a *CachedAppointmentAdapter) ListAll(ctx context.Context) ([]*entities.Appointment, error) {
	return a.adapter.ListAll(ctx)
}

func (a *CachedAppointmentAdapter) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error) {
	return a.adapter.ListByPatient(ctx, patientID)
}

func (a *CachedAppointmentAdapter) ListByDoctor(ctx context.Context, doctorID int64) ([]*entities.Appointment, error) {
	return a.adapter.ListByDoctor(ctx, doctorID)
}

func (a *CachedAppointmentAdapter) ListByDoctorAndRange(ctx context.Context, doctorID int64, start, end time.Time) ([]*entities.Appointment, error) {
	return a.adapter.ListByDoctorAndRange(ctx, doctorID, start, end)
}

func (a *CachedAppointmentAdapter) ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]*entities.Appointment, error) {
	return a.adapter.ListConfirmedBetween(ctx, from, to)
}

package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clinicflow/appointments/internal/application/services"
	"github.com/clinicflow/appointments/internal/domain/entities"
)

func TestAuditService_Log(t *testing.T) {
	t.Run("appends a record with the acting identity", func(t *testing.T) {
		repo := new(MockAuditRepository)
		service := services.NewAuditService(repo)

		repo.On("Append", mock.Anything, mock.MatchedBy(func(r *entities.AuditRecord) bool {
			return r.Actor == "admin@clinic" &&
				r.Action == services.AuditCancelAppointment &&
				r.Details == "cancelled appointment 42" &&
				!r.RecordedAt.IsZero()
		})).Return(nil)

		service.Log(context.Background(), "admin@clinic", services.AuditCancelAppointment, "cancelled appointment 42")

		repo.AssertExpectations(t)
	})

	t.Run("absorbs append failures", func(t *testing.T) {
		repo := new(MockAuditRepository)
		service := services.NewAuditService(repo)

		repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("database unavailable"))

		// Must not panic or surface the failure to the caller.
		service.Log(context.Background(), "admin@clinic", services.AuditCreateAppointment, "created appointment 1")
	})
}

func TestAuditService_List(t *testing.T) {
	repo := new(MockAuditRepository)
	service := services.NewAuditService(repo)

	records := []*entities.AuditRecord{{ID: 2}, {ID: 1}}
	repo.On("List", mock.Anything, 50).Return(records, nil)

	result, err := service.List(context.Background(), 50)

	assert.NoError(t, err)
	assert.Equal(t, records, result)
	repo.AssertExpectations(t)
}

//go:build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/clinicflow/appointments/internal/adapters/database"
	"github.com/clinicflow/appointments/internal/domain/entities"
	"github.com/clinicflow/appointments/internal/domain/repositories"
	"github.com/clinicflow/appointments/internal/infrastructure/clients/postgres"
	apperrors "github.com/clinicflow/appointments/pkg/errors"
)

type AppointmentAdapterIntegrationTestSuite struct {
	suite.Suite
	client  *postgres.Client
	adapter repositories.AppointmentRepository
	db      *sql.DB

	doctorID  int64
	patientID int64
}

func (suite *AppointmentAdapterIntegrationTestSuite) SetupSuite() {
	suite.client = newTestPostgresClient(suite.T())
	suite.db = suite.client.DB()
	suite.adapter = database.NewAppointmentAdapter(suite.client)

	suite.runMigrations()
}

func (suite *AppointmentAdapterIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.client.Close()
	}
}

func (suite *AppointmentAdapterIntegrationTestSuite) SetupTest() {
	suite.cleanupTestData()
	// Appointments need a doctor and a patient for their foreign keys
	suite.seedReferenceData()
}

func (suite *AppointmentAdapterIntegrationTestSuite) TearDownTest() {
	suite.cleanupTestData()
}

func (suite *AppointmentAdapterIntegrationTestSuite) runMigrations() {
	migrationSQL, err := os.ReadFile("../../migrations/001_initial_schema.sql")
	require.NoError(suite.T(), err)
	_, err = suite.db.Exec(string(migrationSQL))
	require.NoError(suite.T(), err)
}

func (suite *AppointmentAdapterIntegrationTestSuite) cleanupTestData() {
	tables := []string{
		"notifications",
		"audit_records",
		"appointments",
		"doctors",
		"users",
	}
	for _, table := range tables {
		_, err := suite.db.Exec("DELETE FROM " + table)
		require.NoError(suite.T(), err)
	}
}

func (suite *AppointmentAdapterIntegrationTestSuite) seedReferenceData() {
	err := suite.db.QueryRow(`
		INSERT INTO users (email, name, role)
		VALUES ('patient@example.com', 'Test Patient', 'PATIENT')
		RETURNING id
	`).Scan(&suite.patientID)
	require.NoError(suite.T(), err)

	err = suite.db.QueryRow(`
		INSERT INTO doctors (name, specialty, phone)
		VALUES ('Integration Doctor', 'Cardiology', '+00-000')
		RETURNING id
	`).Scan(&suite.doctorID)
	require.NoError(suite.T(), err)
}

func (suite *AppointmentAdapterIntegrationTestSuite) newAppointment(at time.Time) *entities.Appointment {
	now := time.Now().UTC()
	return &entities.Appointment{
		DoctorID:     suite.doctorID,
		PatientID:    suite.patientID,
		ScheduledAt:  at,
		Status:       entities.AppointmentStatusConfirmed,
		CheckInToken: uuid.New().String(),
		CheckInURL:   "http://localhost:3000/checkin",
		Notes:        "integration",
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (suite *AppointmentAdapterIntegrationTestSuite) TestCreateAndGet() {
	ctx := context.Background()
	appointment := suite.newAppointment(time.Now().Add(24 * time.Hour).UTC())

	err := suite.adapter.Create(ctx, appointment)
	require.NoError(suite.T(), err)
	require.NotZero(suite.T(), appointment.ID)

	retrieved, err := suite.adapter.GetByID(ctx, appointment.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), appointment.CheckInToken, retrieved.CheckInToken)
	assert.Equal(suite.T(), entities.AppointmentStatusConfirmed, retrieved.Status)
	assert.WithinDuration(suite.T(), appointment.ScheduledAt, retrieved.ScheduledAt, time.Second)
}

func (suite *AppointmentAdapterIntegrationTestSuite) TestGetByCheckInToken() {
	ctx := context.Background()
	appointment := suite.newAppointment(time.Now().Add(24 * time.Hour).UTC())
	require.NoError(suite.T(), suite.adapter.Create(ctx, appointment))

	retrieved, err := suite.adapter.GetByCheckInToken(ctx, appointment.CheckInToken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), appointment.ID, retrieved.ID)

	_, err = suite.adapter.GetByCheckInToken(ctx, uuid.New().String())
	assert.True(suite.T(), apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func (suite *AppointmentAdapterIntegrationTestSuite) TestUpdateBumpsVersion() {
	ctx := context.Background()
	appointment := suite.newAppointment(time.Now().Add(48 * time.Hour).UTC())
	require.NoError(suite.T(), suite.adapter.Create(ctx, appointment))

	appointment.Status = entities.AppointmentStatusCancelled
	require.NoError(suite.T(), suite.adapter.Update(ctx, appointment))

	retrieved, err := suite.adapter.GetByID(ctx, appointment.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), entities.AppointmentStatusCancelled, retrieved.Status)
	assert.Equal(suite.T(), int64(2), retrieved.Version)
}

func (suite *AppointmentAdapterIntegrationTestSuite) TestUpdateDetectsConcurrentModification() {
	ctx := context.Background()
	appointment := suite.newAppointment(time.Now().Add(48 * time.Hour).UTC())
	require.NoError(suite.T(), suite.adapter.Create(ctx, appointment))

	stale, err := suite.adapter.GetByID(ctx, appointment.ID)
	require.NoError(suite.T(), err)

	appointment.Notes = "first writer"
	require.NoError(suite.T(), suite.adapter.Update(ctx, appointment))

	stale.Notes = "second writer"
	err = suite.adapter.Update(ctx, stale)
	assert.True(suite.T(), apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func (suite *AppointmentAdapterIntegrationTestSuite) TestListConfirmedBetween() {
	ctx := context.Background()
	now := time.Now().UTC()

	inWindow := suite.newAppointment(now.Add(6 * time.Hour))
	require.NoError(suite.T(), suite.adapter.Create(ctx, inWindow))

	outside := suite.newAppointment(now.Add(72 * time.Hour))
	require.NoError(suite.T(), suite.adapter.Create(ctx, outside))

	cancelled := suite.newAppointment(now.Add(8 * time.Hour))
	cancelled.Status = entities.AppointmentStatusCancelled
	require.NoError(suite.T(), suite.adapter.Create(ctx, cancelled))

	results, err := suite.adapter.ListConfirmedBetween(ctx, now, now.Add(24*time.Hour))
	require.NoError(suite.T(), err)
	require.Len(suite.T(), results, 1)
	assert.Equal(suite.T(), inWindow.ID, results[0].ID)
}

func (suite *AppointmentAdapterIntegrationTestSuite) TestDelete() {
	ctx := context.Background()
	appointment := suite.newAppointment(time.Now().Add(24 * time.Hour).UTC())
	require.NoError(suite.T(), suite.adapter.Create(ctx, appointment))

	require.NoError(suite.T(), suite.adapter.Delete(ctx, appointment.ID))

	_, err := suite.adapter.GetByID(ctx, appointment.ID)
	assert.True(suite.T(), apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	err = suite.adapter.Delete(ctx, appointment.ID)
	assert.True(suite.T(), apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestAppointmentAdapterIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(AppointmentAdapterIntegrationTestSuite))
}

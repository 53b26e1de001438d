package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/clinicflow/appointments/internal/adapters/database"
	"github.com/clinicflow/appointments/internal/application/services"
	"github.com/clinicflow/appointments/internal/infrastructure/clients/postgres"
	"github.com/clinicflow/appointments/pkg/config"
)

// Seeds a development database with doctors, patients and a handful of
// booked appointments. Run with RESET_DB=true to start from a clean slate.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				notifications,
				audit_records,
				appointments,
				doctors,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset database: %v", err)
		}
	}

	doctorRepo := database.NewDoctorAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	appointmentRepo := database.NewAppointmentAdapter(pgClient)
	notificationRepo := database.NewNotificationAdapter(pgClient)
	auditRepo := database.NewAuditAdapter(pgClient)

	db := pgClient.DB()

	seedUsers := []struct {
		email, name, role string
	}{
		{"admin@clinicflow.local", "Clinic Admin", "ADMIN"},
		{"john.doe@example.com", "John Doe", "PATIENT"},
		{"maria.lopez@example.com", "Maria Lopez", "PATIENT"},
		{"dr.garcia@clinicflow.local", "Elena Garcia", "PATIENT"},
	}
	for _, u := range seedUsers {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (email, name, role) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING`,
			u.email, u.name, u.role); err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.email, err)
		}
	}

	seedDoctors := []struct {
		name, specialty, phone, userEmail string
	}{
		{"Elena Garcia", "Cardiology", "+34-600-111-222", "dr.garcia@clinicflow.local"},
		{"Samuel Okoro", "Dermatology", "+34-600-333-444", ""},
		{"Ines Moreau", "Pediatrics", "+34-600-555-666", ""},
	}
	for _, d := range seedDoctors {
		if d.userEmail != "" {
			_, err = db.ExecContext(ctx,
				`INSERT INTO doctors (name, specialty, phone, user_id)
				 SELECT $1, $2, $3, id FROM users WHERE email = $4
				 ON CONFLICT DO NOTHING`,
				d.name, d.specialty, d.phone, d.userEmail)
		} else {
			_, err = db.ExecContext(ctx,
				`INSERT INTO doctors (name, specialty, phone) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				d.name, d.specialty, d.phone)
		}
		if err != nil {
			log.Fatalf("Failed to seed doctor %s: %v", d.name, err)
		}
	}

	// Book appointments through the service so tokens, notifications and
	// audit entries come out the same way production bookings do.
	validator := services.NewSchedulingValidator(doctorRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, nil)
	auditService := services.NewAuditService(auditRepo)
	appointmentService := services.NewAppointmentService(
		appointmentRepo, doctorRepo, userRepo,
		validator, notificationService, auditService,
		cfg.CheckIn.BaseURL,
	)

	tomorrow := time.Now().Add(24 * time.Hour)
	slot := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 10, 0, 0, 0, time.Local)

	bookings := []struct {
		doctorID, patientID int64
		at                  time.Time
		specialty, notes    string
	}{
		{1, 2, slot, "Cardiology", "Annual check-up"},
		{2, 3, slot.Add(2 * time.Hour), "", "Mole review"},
		{3, 2, slot.Add(26 * time.Hour), "Pediatrics", ""},
	}
	for _, b := range bookings {
		appointment, err := appointmentService.Create(ctx, "seed", b.doctorID, b.patientID, b.at, b.specialty, b.notes)
		if err != nil {
			log.Printf("Skipping appointment for doctor %d: %v", b.doctorID, err)
			continue
		}
		log.Printf("Seeded appointment %d, check-in: %s", appointment.ID, appointment.CheckInURL)
	}

	log.Println("Seeding complete")
}

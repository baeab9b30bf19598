// Manually trigger the certificate confirmation sweep.
//
// The sweep is part of the main application's background tasks (it runs every
// minute); this command exists for operating on a stopped server, e.g. after
// an RPC outage left a backlog of PENDING certificates.
//
// Usage: go run scripts/confirm_certificates.go

package main

import (
	"apec_lms_backend/internal/config"
	"apec_lms_backend/internal/repository"
	"apec_lms_backend/internal/service"
	"apec_lms_backend/pkg/database"
	"apec_lms_backend/pkg/logger"
	"apec_lms_backend/pkg/solana"
	"context"
	"log"
	"time"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	certs := repository.NewCertificateRepository(db)
	courses := repository.NewCourseRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	ledger := solana.NewClient(cfg.Solana.RPCURL, cfg.Solana.Commitment, cfg.Solana.ConfirmTimeout)

	svc, err := service.NewCertificateService(certs, courses, enrollments, ledger, cfg)
	if err != nil {
		log.Fatalf("failed to build certificate service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := svc.ConfirmPending(ctx); err != nil {
		log.Fatalf("confirmation sweep failed: %v", err)
	}
	log.Println("certificate confirmation sweep finished")
}

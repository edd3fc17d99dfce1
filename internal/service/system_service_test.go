package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/portfolio-monitor/internal/repository"
	"github.com/ndewijer/portfolio-monitor/internal/service"
	"github.com/ndewijer/portfolio-monitor/internal/testutil"
)

func TestSystemService_CheckHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		codec, _ := repository.NewCodec("")
		repo := repository.NewPositionRepository(repository.NewSQLiteStore(db), codec, "portfolio", 1)
		svc := service.NewSystemService(db, repo)

		if err := svc.CheckHealth(context.Background()); err != nil {
			t.Errorf("CheckHealth() returned unexpected error: %v", err)
		}
	})

	t.Run("closed database is unhealthy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		codec, _ := repository.NewCodec("")
		repo := repository.NewPositionRepository(repository.NewSQLiteStore(db), codec, "portfolio", 1)
		svc := service.NewSystemService(db, repo)
		db.Close()

		if err := svc.CheckHealth(context.Background()); err == nil {
			t.Error("Expected error for closed database")
		}
	})
}

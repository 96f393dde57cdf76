package usecase

import "context"

// SeedReport summarises what Seed inserted.
type SeedReport struct {
	AdminCreated bool
	CatalogItems int
}

// BootstrapUsecase prepares a fresh database with the initial admin and catalog.
type BootstrapUsecase interface {
	Seed(ctx context.Context) (*SeedReport, error)
}

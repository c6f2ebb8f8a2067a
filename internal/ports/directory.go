package ports

import (
	"context"
	"errors"
	"route-timing-service/internal/domain"
)

var ErrEntityNotFound = errors.New("entity not found")

// Port: read access to the job, contact and supplier records owned by the
// business-management collaborator.
type Directory interface {
	ListJobs(ctx context.Context) ([]domain.Job, error)
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, id string) (domain.Supplier, error)
}

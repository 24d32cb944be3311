package repo

import (
	"context"

	"github.com/zenGate-Global/orgadmin/platform/go/org"
)

// Repository defines the org operations required by the themes service.
type Repository interface {
	DeploySource(ctx context.Context, path, targetUsername string) (org.DeployResult, error)
}

type hostRepository struct {
	store *org.Store
}

// NewHostRepository constructs a repository backed by the host tool.
func NewHostRepository(store *org.Store) Repository {
	if store == nil {
		panic("org store is required")
	}
	return &hostRepository{store: store}
}

func (r *hostRepository) DeploySource(ctx context.Context, path, targetUsername string) (org.DeployResult, error) {
	return r.store.DeploySource(ctx, path, targetUsername)
}

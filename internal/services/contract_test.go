package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type fakeContractRepo struct {
	contracts map[uuid.UUID]*types.DataContract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: map[uuid.UUID]*types.DataContract{}}
}

func (f *fakeContractRepo) Create(ctx context.Context, tx *gorm.DB, contract *types.DataContract) (*types.DataContract, error) {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	f.contracts[contract.ID] = contract
	return contract, nil
}

func (f *fakeContractRepo) GetByID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*types.DataContract, error) {
	return f.contracts[contractID], nil
}

func (f *fakeContractRepo) List(ctx context.Context, tx *gorm.DB, status string) ([]*types.DataContract, error) {
	var out []*types.DataContract
	for _, c := range f.contracts {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContractRepo) NameVersionExists(ctx context.Context, tx *gorm.DB, name, version string) (bool, error) {
	for _, c := range f.contracts {
		if c.Name == name && c.Version == version {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContractRepo) Update(ctx context.Context, tx *gorm.DB, contract *types.DataContract) error {
	f.contracts[contract.ID] = contract
	return nil
}

func (f *fakeContractRepo) Delete(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) error {
	delete(f.contracts, contractID)
	return nil
}

func newContractServiceForTest(t *testing.T) (DataContractService, *fakeContractRepo) {
	t.Helper()
	repo := newFakeContractRepo()
	svc := NewDataContractService(newTestDB(t), newTestLogger(t), repo, &fakeAuditService{}, nil)
	return svc, repo
}

func TestContractLifecycle(t *testing.T) {
	svc, _ := newContractServiceForTest(t)
	ctx := authedContext(uuid.New(), "steward@example.com", false)

	created, err := svc.Create(ctx, &types.DataContract{Name: "orders"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != types.ContractStatusDraft {
		t.Fatalf("new contract status: want=draft got=%s", created.Status)
	}
	if created.Version != "0.1.0" {
		t.Fatalf("default version: want=0.1.0 got=%s", created.Version)
	}

	active, err := svc.UpdateStatus(ctx, created.ID, types.ContractStatusActive)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if active.Status != types.ContractStatusActive {
		t.Fatalf("status: want=active got=%s", active.Status)
	}

	if _, err := svc.UpdateStatus(ctx, created.ID, types.ContractStatusDraft); err == nil {
		t.Fatal("active->draft: want=error got=nil")
	}

	if err := svc.Delete(ctx, created.ID); err == nil {
		t.Fatal("delete active contract: want=error got=nil")
	}

	if _, err := svc.UpdateStatus(ctx, created.ID, types.ContractStatusDeprecated); err != nil {
		t.Fatalf("deprecate: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete deprecated contract: %v", err)
	}
}

func TestContractDuplicateNameVersion(t *testing.T) {
	svc, _ := newContractServiceForTest(t)
	ctx := authedContext(uuid.New(), "steward@example.com", false)

	if _, err := svc.Create(ctx, &types.DataContract{Name: "orders", Version: "1.0.0"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, &types.DataContract{Name: "orders", Version: "1.0.0"})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("duplicate: want=409 apierr got=%v", err)
	}
}

func TestContractOnlyDraftEditable(t *testing.T) {
	svc, _ := newContractServiceForTest(t)
	ctx := authedContext(uuid.New(), "steward@example.com", false)

	created, err := svc.Create(ctx, &types.DataContract{Name: "orders"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, created.ID, types.ContractStatusActive); err != nil {
		t.Fatalf("activate: %v", err)
	}

	created.Description = "late edit"
	_, err = svc.Update(ctx, created)
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("edit active contract: want=409 apierr got=%v", err)
	}
}

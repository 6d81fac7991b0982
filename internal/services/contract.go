package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larsgeorge/ontos-sub000/internal/apierr"
	"github.com/larsgeorge/ontos-sub000/internal/clients/redis"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
	"github.com/larsgeorge/ontos-sub000/internal/repos"
	"github.com/larsgeorge/ontos-sub000/internal/requestdata"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

// contractTransitions is the allowed status workflow. Draft contracts may be
// activated, active contracts deprecated; no other moves.
var contractTransitions = map[string][]string{
	types.ContractStatusDraft:  {types.ContractStatusActive},
	types.ContractStatusActive: {types.ContractStatusDeprecated},
}

type DataContractService interface {
	Create(ctx context.Context, contract *types.DataContract) (*types.DataContract, error)
	GetByID(ctx context.Context, contractID uuid.UUID) (*types.DataContract, error)
	List(ctx context.Context, status string) ([]*types.DataContract, error)
	Update(ctx context.Context, contract *types.DataContract) (*types.DataContract, error)
	UpdateStatus(ctx context.Context, contractID uuid.UUID, status string) (*types.DataContract, error)
	Delete(ctx context.Context, contractID uuid.UUID) error
}

type dataContractService struct {
	db           *gorm.DB
	log          *logger.Logger
	contractRepo repos.DataContractRepo
	auditService AuditService
	bus          redis.CatalogBus
}

func NewDataContractService(
	db *gorm.DB,
	log *logger.Logger,
	contractRepo repos.DataContractRepo,
	auditService AuditService,
	bus redis.CatalogBus,
) DataContractService {
	return &dataContractService{
		db:           db,
		log:          log.With("service", "DataContractService"),
		contractRepo: contractRepo,
		auditService: auditService,
		bus:          bus,
	}
}

func (cs *dataContractService) Create(ctx context.Context, contract *types.DataContract) (*types.DataContract, error) {
	contract.Name = strings.TrimSpace(contract.Name)
	if contract.Name == "" {
		return nil, apierr.Newf(http.StatusBadRequest, "missing_name", "a contract name is required")
	}
	if contract.Version == "" {
		contract.Version = "0.1.0"
	}
	contract.Status = types.ContractStatusDraft

	exists, err := cs.contractRepo.NameVersionExists(ctx, nil, contract.Name, contract.Version)
	if err != nil {
		return nil, fmt.Errorf("check contract name: %w", err)
	}
	if exists {
		return nil, apierr.Newf(http.StatusConflict, "duplicate_contract", "contract %s@%s already exists", contract.Name, contract.Version)
	}

	if rd := requestdata.GetRequestData(ctx); rd != nil && contract.CreatedBy == uuid.Nil {
		contract.CreatedBy = rd.UserID
	}

	var created *types.DataContract
	txErr := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err = cs.contractRepo.Create(ctx, tx, contract)
		if err != nil {
			return fmt.Errorf("create contract: %w", err)
		}
		cs.auditService.Record(ctx, tx, "create", "data-contract", created.ID.String(), true, map[string]any{
			"name":    created.Name,
			"version": created.Version,
		})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	cs.publishMutation(ctx, created.ID)
	return created, nil
}

func (cs *dataContractService) GetByID(ctx context.Context, contractID uuid.UUID) (*types.DataContract, error) {
	contract, err := cs.contractRepo.GetByID(ctx, nil, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, apierr.Newf(http.StatusNotFound, "contract_not_found", "contract %s not found", contractID)
	}
	return contract, nil
}

func (cs *dataContractService) List(ctx context.Context, status string) ([]*types.DataContract, error) {
	return cs.contractRepo.List(ctx, nil, status)
}

func (cs *dataContractService) Update(ctx context.Context, contract *types.DataContract) (*types.DataContract, error) {
	existing, err := cs.GetByID(ctx, contract.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != types.ContractStatusDraft {
		return nil, apierr.Newf(http.StatusConflict, "contract_not_editable", "only draft contracts can be edited")
	}
	contract.Status = existing.Status
	contract.CreatedBy = existing.CreatedBy

	txErr := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.contractRepo.Update(ctx, tx, contract); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}
		cs.auditService.Record(ctx, tx, "update", "data-contract", contract.ID.String(), true, map[string]any{"name": contract.Name})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	cs.publishMutation(ctx, contract.ID)
	return contract, nil
}

func (cs *dataContractService) UpdateStatus(ctx context.Context, contractID uuid.UUID, status string) (*types.DataContract, error) {
	contract, err := cs.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(contract.Status, status) {
		return nil, apierr.New(http.StatusConflict, "invalid_status_transition",
			fmt.Errorf("cannot move contract from %s to %s", contract.Status, status))
	}
	previous := contract.Status
	contract.Status = status

	txErr := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.contractRepo.Update(ctx, tx, contract); err != nil {
			return fmt.Errorf("update contract status: %w", err)
		}
		cs.auditService.Record(ctx, tx, "status-change", "data-contract", contract.ID.String(), true, map[string]any{
			"from": previous,
			"to":   status,
		})
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	cs.publishMutation(ctx, contract.ID)
	return contract, nil
}

func (cs *dataContractService) Delete(ctx context.Context, contractID uuid.UUID) error {
	contract, err := cs.GetByID(ctx, contractID)
	if err != nil {
		return err
	}
	if contract.Status == types.ContractStatusActive {
		return apierr.Newf(http.StatusConflict, "contract_active", "active contracts must be deprecated before deletion")
	}
	txErr := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.contractRepo.Delete(ctx, tx, contractID); err != nil {
			return fmt.Errorf("delete contract: %w", err)
		}
		cs.auditService.Record(ctx, tx, "delete", "data-contract", contractID.String(), true, nil)
		return nil
	})
	if txErr != nil {
		return txErr
	}
	cs.publishMutation(ctx, contractID)
	return nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range contractTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (cs *dataContractService) publishMutation(ctx context.Context, contractID uuid.UUID) {
	if cs.bus == nil {
		return
	}
	if err := cs.bus.Publish(ctx, redis.Event{
		Type:       redis.EventEntityMutated,
		EntityType: "data-contract",
		EntityID:   contractID.String(),
	}); err != nil {
		cs.log.Warn("Failed to publish contract mutation", "error", err)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/larsgeorge/ontos-sub000/internal/services"
	"github.com/larsgeorge/ontos-sub000/internal/types"
)

type DataContractHandler struct {
	contractService services.DataContractService
}

func NewDataContractHandler(contractService services.DataContractService) *DataContractHandler {
	return &DataContractHandler{contractService: contractService}
}

type contractRequest struct {
	Name        string         `json:"name" binding:"required"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	OwnerTeamID *string        `json:"owner_team_id"`
	Spec        map[string]any `json:"spec"`
}

func (ch *DataContractHandler) Create(c *gin.Context) {
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	contract := &types.DataContract{
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
	}
	if req.OwnerTeamID != nil {
		teamID, err := uuid.Parse(*req.OwnerTeamID)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_team_id", err)
			return
		}
		contract.OwnerTeamID = &teamID
	}
	if req.Spec != nil {
		raw, err := json.Marshal(req.Spec)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_spec", err)
			return
		}
		contract.Spec = datatypes.JSON(raw)
	}
	created, err := ch.contractService.Create(c.Request.Context(), contract)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"contract": created})
}

func (ch *DataContractHandler) Get(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	contract, err := ch.contractService.GetByID(c.Request.Context(), contractID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": contract})
}

func (ch *DataContractHandler) List(c *gin.Context) {
	contracts, err := ch.contractService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"contracts": contracts})
}

func (ch *DataContractHandler) Update(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	existing, err := ch.contractService.GetByID(c.Request.Context(), contractID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	existing.Name = req.Name
	if req.Version != "" {
		existing.Version = req.Version
	}
	existing.Description = req.Description
	if req.Spec != nil {
		raw, err := json.Marshal(req.Spec)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_spec", err)
			return
		}
		existing.Spec = datatypes.JSON(raw)
	}
	updated, err := ch.contractService.Update(c.Request.Context(), existing)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": updated})
}

type contractStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (ch *DataContractHandler) UpdateStatus(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req contractStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	updated, err := ch.contractService.UpdateStatus(c.Request.Context(), contractID, req.Status)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": updated})
}

func (ch *DataContractHandler) Delete(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ch.contractService.Delete(c.Request.Context(), contractID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

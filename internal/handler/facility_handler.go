package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/service"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
	"github.com/kilbil-1980/kilbil-school-api/pkg/response"
)

// FacilityHandler exposes facility endpoints.
type FacilityHandler struct {
	facilities *service.FacilityService
}

func NewFacilityHandler(svc *service.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilities: svc}
}

func (h *FacilityHandler) List(c *gin.Context) {
	records, err := h.facilities.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

func (h *FacilityHandler) Get(c *gin.Context) {
	record, err := h.facilities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

func (h *FacilityHandler) Create(c *gin.Context) {
	var req dto.FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facility payload"))
		return
	}
	record, err := h.facilities.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

func (h *FacilityHandler) Update(c *gin.Context) {
	var req dto.FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facility payload"))
		return
	}
	record, err := h.facilities.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

func (h *FacilityHandler) Delete(c *gin.Context) {
	if err := h.facilities.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/service"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
	"github.com/kilbil-1980/kilbil-school-api/pkg/response"
)

// CareerHandler exposes job opening endpoints. Public listings only include
// open positions.
type CareerHandler struct {
	careers *service.CareerService
}

func NewCareerHandler(svc *service.CareerService) *CareerHandler {
	return &CareerHandler{careers: svc}
}

func (h *CareerHandler) List(c *gin.Context) {
	openOnly := claimsFromContext(c) == nil
	records, err := h.careers.List(c.Request.Context(), openOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

func (h *CareerHandler) Get(c *gin.Context) {
	record, err := h.careers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

func (h *CareerHandler) Create(c *gin.Context) {
	var req dto.CareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid career payload"))
		return
	}
	record, err := h.careers.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

func (h *CareerHandler) Update(c *gin.Context) {
	var req dto.CareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid career payload"))
		return
	}
	record, err := h.careers.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

func (h *CareerHandler) Delete(c *gin.Context) {
	if err := h.careers.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

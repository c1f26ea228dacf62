package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bansos-dispatch/internal/model"
	"bansos-dispatch/internal/service"
)

// GetDepartments returns the department directory
func (h *Handlers) GetDepartments(c *gin.Context) {
	departments, err := h.departments.List(c.Request.Context())
	if err != nil {
		respondRemoteError(c, err, "Failed to fetch departments")
		return
	}
	if departments == nil {
		departments = []model.Department{}
	}
	c.JSON(http.StatusOK, departments)
}

// GetDepartment returns a specific department
func (h *Handlers) GetDepartment(c *gin.Context) {
	d, err := h.departments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRemoteError(c, err, "Failed to fetch department")
		return
	}
	c.JSON(http.StatusOK, d)
}

// CreateDepartment creates a new department
func (h *Handlers) CreateDepartment(c *gin.Context) {
	var req model.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	d, err := h.departments.Create(c.Request.Context(), req)
	if err != nil {
		h.departmentWriteError(c, err, "Failed to create department")
		return
	}
	c.JSON(http.StatusCreated, d)
}

// UpdateDepartment replaces a department
func (h *Handlers) UpdateDepartment(c *gin.Context) {
	var req model.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	d, err := h.departments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.departmentWriteError(c, err, "Failed to update department")
		return
	}
	c.JSON(http.StatusOK, d)
}

// DeleteDepartment deletes a department
func (h *Handlers) DeleteDepartment(c *gin.Context) {
	if err := h.departments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondRemoteError(c, err, "Failed to delete department")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted successfully"})
}

// ToggleDepartment flips the active flag of a department
func (h *Handlers) ToggleDepartment(c *gin.Context) {
	d, err := h.departments.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRemoteError(c, err, "Failed to toggle department")
		return
	}
	c.JSON(http.StatusOK, d)
}

// ResolveDepartment previews auto-routing for a category
func (h *Handlers) ResolveDepartment(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "category is required")
		return
	}

	d, ok := h.departments.Directory(c.Request.Context()).ResolveByCategory(category)
	if !ok {
		respondError(c, http.StatusNotFound, model.ReasonNoDestination, "No active department handles category "+category)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handlers) departmentWriteError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrInvalidDepartment) {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	respondRemoteError(c, err, fallback)
}

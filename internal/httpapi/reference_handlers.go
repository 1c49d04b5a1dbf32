package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) listDepartments(c *gin.Context) {
	list, err := h.Lookup.Departments(c.Request.Context())
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) listRoles(c *gin.Context) {
	list, err := h.Lookup.Roles(c.Request.Context())
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) listLeaveTypes(c *gin.Context) {
	list, err := h.Lookup.LeaveTypes(c.Request.Context())
	if err != nil {
		h.fail(c, storeErr(err, ""))
		return
	}
	c.JSON(http.StatusOK, list)
}

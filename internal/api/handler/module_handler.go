package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/constructia/platform-api/internal/api/middleware"
	"github.com/constructia/platform-api/internal/core/ports"
)

// ModuleHandler records admin module activity in the audit trail. The
// dashboard calls Mount every time an admin screen opens; the write is
// fire-and-forget so a slow audit sink never stalls the UI.
type ModuleHandler struct {
	audit ports.AuditLogger
}

func NewModuleHandler(audit ports.AuditLogger) *ModuleHandler {
	return &ModuleHandler{audit: audit}
}

// Mount logs that an admin module was opened.
//
// @Summary      Record an admin module mount
// @Tags         admin
// @Produce      json
// @Param        module  path  string  true  "Module name"
// @Success      202     {object}  map[string]string
// @Router       /admin/modules/{module}/mount [post]
func (h *ModuleHandler) Mount(c echo.Context) error {
	module := c.Param("module")
	actor := ""
	if record := middleware.SessionFromContext(c); record != nil && record.Admin != nil {
		actor = record.Admin.Username
	}
	h.audit.Log(c.Request().Context(), "module_mount", module, "", nil, map[string]string{"actor": actor})
	return c.JSON(http.StatusAccepted, map[string]string{"status": "recorded"})
}

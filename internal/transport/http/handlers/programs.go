package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// ProgramHandler exposes the public program catalog.
type ProgramHandler struct {
	programs *usecase.ProgramService
}

// NewProgramHandler constructs ProgramHandler.
func NewProgramHandler(programs *usecase.ProgramService) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

// RegisterRoutes binds program catalog routes.
func (h *ProgramHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/programs", h.list)
	r.GET("/programs/:id", h.get)
}

func (h *ProgramHandler) list(c *gin.Context) {
	programs, err := h.programs.ListPrograms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list programs"))
		return
	}

	views := make([]ProgramView, 0, len(programs))
	for _, program := range programs {
		views = append(views, toProgramView(program))
	}

	c.JSON(http.StatusOK, views)
}

func (h *ProgramHandler) get(c *gin.Context) {
	detail, err := h.programs.GetProgramDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrProgramNotFound, Status: http.StatusNotFound, Message: "program not found"},
		}, http.StatusInternalServerError, "failed to load program")
		return
	}

	c.JSON(http.StatusOK, ProgramDetailResponse{
		Program:      toProgramView(detail.Program),
		Organization: toOrganizationView(detail.Organization),
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/calarcon/aulabot/internal/model"
	appErr "github.com/calarcon/aulabot/internal/pkg/errors"
	"github.com/calarcon/aulabot/internal/pkg/logutil"
	"github.com/calarcon/aulabot/internal/pkg/response"
	"github.com/calarcon/aulabot/internal/repo"
)

type updateRequest struct {
	Course   string `json:"course"`
	Section  string `json:"section"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Cycle    string `json:"cycle"`
	Module   string `json:"module"`
}

type CourseHandler struct {
	repo *repo.CourseRepo
}

func NewCourseHandler(courseRepo *repo.CourseRepo) *CourseHandler {
	return &CourseHandler{repo: courseRepo}
}

func (h *CourseHandler) List(c *gin.Context) {
	names, err := h.repo.ListNames(c.Request.Context())
	if err != nil {
		logutil.GetLogger(c.Request.Context()).Error("course listing failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	response.Success(c, names)
}

// AddUpdate lets the admin API file a course update without walking the
// conversational flow.
func (h *CourseHandler) AddUpdate(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	category, ok := model.NormalizeCategory(req.Category)
	if !ok {
		response.Error(c, http.StatusBadRequest, "unknown category")
		return
	}
	if !model.ValidCycle(req.Cycle) {
		response.Error(c, http.StatusBadRequest, "invalid cycle")
		return
	}
	if !model.ValidModule(req.Module) {
		response.Error(c, http.StatusBadRequest, "invalid module")
		return
	}

	err := h.repo.AddUpdate(c.Request.Context(), model.UpdateInput{
		Course:   req.Course,
		Section:  req.Section,
		Content:  req.Content,
		Category: category,
		Cycle:    req.Cycle,
		Module:   req.Module,
	})
	switch {
	case err == nil:
		response.Success(c, nil)
	case appErr.IsInvalid(err):
		response.Error(c, http.StatusBadRequest, "update is missing required fields")
	default:
		logutil.GetLogger(c.Request.Context()).Error("update insert failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "internal error")
	}
}

package handler

import (
	"fmt"
	"net/http"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CycleHandler owns the salary cycle list.
type CycleHandler struct {
	DB *gorm.DB
}

func NewCycleHandler(db *gorm.DB) *CycleHandler {
	return &CycleHandler{DB: db}
}

type cycleResp struct {
	ID         uint   `json:"id"`
	CycleStart string `json:"cycle_start"`
	CycleEnd   string `json:"cycle_end"`
	Label      string `json:"label"`
	Current    bool   `json:"current"`
}

// List returns the user's salary cycles newest first. The first entry is the
// current cycle and is labeled as such; an empty list is returned as-is and
// the client renders a disabled placeholder without fetching aggregates.
func (h *CycleHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not signed in")
		return
	}

	var cycles []models.SalaryCycle
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("cycle_start DESC").
		Find(&cycles).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load salary cycles")
		return
	}

	items := make([]cycleResp, 0, len(cycles))
	for i := range cycles {
		cy := &cycles[i]
		label := fmt.Sprintf("%s → %s",
			cy.CycleStart.Format("02 Jan 2006"),
			cy.CycleEnd.Format("02 Jan 2006"))
		current := i == 0
		if current {
			label = "Current (" + label + ")"
		}
		items = append(items, cycleResp{
			ID:         cy.ID,
			CycleStart: cy.CycleStart.Format("2006-01-02"),
			CycleEnd:   cy.CycleEnd.Format("2006-01-02"),
			Label:      label,
			Current:    current,
		})
	}

	util.Success(c, util.Response{
		"items": items,
		"count": len(items),
	})
}

type createCycleReq struct {
	CycleStart string `json:"cycle_start" binding:"required"`
	CycleEnd   string `json:"cycle_end" binding:"required"`
}

// Create adds a salary cycle. Start must not be after end and the range must
// not overlap an existing cycle of the same user.
func (h *CycleHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not signed in")
		return
	}

	var req createCycleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid parameters")
		return
	}

	start, err := util.ValidateDate(req.CycleStart)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cycle_start must be YYYY-MM-DD")
		return
	}
	end, err := util.ValidateDate(req.CycleEnd)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cycle_end must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cycle_end must not be before cycle_start")
		return
	}

	var overlapping int64
	if err := h.DB.Model(&models.SalaryCycle{}).
		Where("user_id = ? AND cycle_start <= ? AND cycle_end >= ?", user.ID, end, start).
		Count(&overlapping).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to check cycles")
		return
	}
	if overlapping > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "Cycle overlaps an existing cycle")
		return
	}

	cycle := models.SalaryCycle{
		UserID:     user.ID,
		CycleStart: start,
		CycleEnd:   end,
	}
	if err := h.DB.Create(&cycle).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save cycle")
		return
	}

	util.Success(c, util.Response{
		"cycle": cycleResp{
			ID:         cycle.ID,
			CycleStart: cycle.CycleStart.Format("2006-01-02"),
			CycleEnd:   cycle.CycleEnd.Format("2006-01-02"),
		},
	})
}

package handler

import (
	"net/http"
	"strings"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/storage"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler owns the category directory.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

// DefaultIcon is used when a transaction's category no longer resolves to a
// directory entry (soft reference).
const DefaultIcon = "🧾"

var defaultTypeIcons = map[string]string{
	"income":  "💰",
	"expense": "💸",
}

type createCategoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
	Type string `json:"type" binding:"required,oneof=income expense"`
	Icon string `json:"icon" binding:"max=16"`
}

type categoryResp struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon"`
}

// Create adds a category. Validation runs before any database write; a
// uniqueness violation is reported as a distinct conflict message, every
// other storage error as a generic failure.
func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not signed in")
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid parameters")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := util.ValidateCategory(req.Name); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please enter a category name")
		return
	}
	if err := util.ValidateTransactionType(req.Type); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please choose a category type")
		return
	}

	icon := strings.TrimSpace(req.Icon)
	if icon == "" {
		icon = defaultTypeIcons[req.Type]
	}

	category := models.Category{
		UserID: user.ID,
		Name:   req.Name,
		Type:   req.Type,
		Icon:   icon,
	}

	if err := h.DB.Create(&category).Error; err != nil {
		switch storage.Classify(err) {
		case storage.KindConflict:
			util.Error(c, http.StatusConflict, util.CodeConflict, "Category already exists!")
		default:
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save category")
		}
		return
	}

	util.Success(c, util.Response{
		"category": categoryResp{
			ID:   category.ID,
			Name: category.Name,
			Type: category.Type,
			Icon: category.Icon,
		},
	})
}

// List returns the user's categories ordered by name, partitioned by type for
// the two dropdown groups.
func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not signed in")
		return
	}

	q := h.DB.Where("user_id = ?", user.ID)
	if t := c.Query("type"); t == "income" || t == "expense" {
		q = q.Where("type = ?", t)
	}

	var categories []models.Category
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load categories")
		return
	}

	income := make([]categoryResp, 0)
	expense := make([]categoryResp, 0)
	for _, cat := range categories {
		r := categoryResp{ID: cat.ID, Name: cat.Name, Type: cat.Type, Icon: cat.Icon}
		if cat.Type == "income" {
			income = append(income, r)
		} else {
			expense = append(expense, r)
		}
	}

	util.Success(c, util.Response{
		"income":  income,
		"expense": expense,
		"total":   len(categories),
	})
}

// iconIndex loads the user's category icons keyed by category name. Lookups
// that miss fall back to DefaultIcon.
func iconIndex(db *gorm.DB, userID uint) map[string]string {
	var categories []models.Category
	if err := db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil
	}
	idx := make(map[string]string, len(categories))
	for _, cat := range categories {
		if cat.Icon != "" {
			idx[cat.Name] = cat.Icon
		}
	}
	return idx
}

// resolveIcon joins a transaction's category name against the directory,
// never failing on a missing entry.
func resolveIcon(idx map[string]string, category string) string {
	if icon, ok := idx[category]; ok {
		return icon
	}
	return DefaultIcon
}

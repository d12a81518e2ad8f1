package userControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	FullName    *string `json:"fullName" binding:"omitempty,min=1"`
	Phone       *string `json:"phone"`
	Governorate *string `json:"governorate"`
	Age         *int    `json:"age" binding:"omitempty,min=16,max=120"`
}

// GET /user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		var user models.User

		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				middleware.Fail(c, models.ErrNotFound)
				return
			}
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := []models.User{}
		if err := db.Order("created_at desc").Find(&users).Error; err != nil {
			middleware.Fail(c, err)
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// PUT /user updates profile fields. Role, status and email are not editable here.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		var user models.User

		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				middleware.Fail(c, models.ErrNotFound)
				return
			}
			middleware.Fail(c, err)
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.FullName != nil {
			name := strings.TrimSpace(*input.FullName)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "fullName must not be empty"})
				return
			}
			updates["full_name"] = name
		}
		if input.Phone != nil {
			updates["phone"] = strings.TrimSpace(*input.Phone)
		}
		if input.Governorate != nil {
			gov, ok := models.NormalizeGovernorate(*input.Governorate)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown governorate"})
				return
			}
			updates["governorate"] = gov
		}
		if input.Age != nil {
			updates["age"] = *input.Age
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				middleware.Fail(c, err)
				return
			}
			if err := db.First(&user, user.ID).Error; err != nil {
				middleware.Fail(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, user)
	}
}

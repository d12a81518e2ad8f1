package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/uploads"
	"gorm.io/gorm"
)

var errCategoryExists = errors.New("category name already exists")

func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories := []models.Category{}
		if err := db.Order("name").Find(&categories).Error; err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// CreateCategory takes a multipart form with "name" and an optional "image".
func CreateCategory(db *gorm.DB, store *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		category := models.Category{Name: name}
		if file, err := c.FormFile("image"); err == nil {
			url, err := store.SaveImage(file, "categories")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			category.Image = url
		}

		if err := createUniqueCategory(db, &category); err != nil {
			if errors.Is(err, errCategoryExists) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(db *gorm.DB, store *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				middleware.Fail(c, models.ErrNotFound)
				return
			}
			middleware.Fail(c, err)
			return
		}

		if name := strings.TrimSpace(c.PostForm("name")); name != "" {
			category.Name = name
		}
		if file, err := c.FormFile("image"); err == nil {
			url, err := store.SaveImage(file, "categories")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			category.Image = url
		}

		var clash int64
		db.Model(&models.Category{}).Where("name = ? AND id <> ?", category.Name, category.ID).Count(&clash)
		if clash > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": errCategoryExists.Error()})
			return
		}
		if err := db.Save(&category).Error; err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory removes a category; its products become uncategorised.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			res := tx.Delete(&models.Category{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.ErrNotFound
			}
			return tx.Model(&models.Product{}).Unscoped().Where("category_id = ?", id).Update("category_id", 0).Error
		})
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}

func createUniqueCategory(db *gorm.DB, category *models.Category) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errCategoryExists
	}
	return db.Create(category).Error
}

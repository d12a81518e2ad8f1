package userControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GET /user/favorites
func GetFavorites(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		favorites := []models.Favorite{}
		if err := db.Preload("Product").Where("user_id = ?", userID).
			Order("created_at desc").Find(&favorites).Error; err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, favorites)
	}
}

// POST /user/favorites/:product_id is idempotent.
func AddFavorite(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		var product models.Product
		if err := db.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				middleware.Fail(c, models.ErrNotFound)
				return
			}
			middleware.Fail(c, err)
			return
		}

		fav := models.Favorite{UserID: c.GetUint("user_id"), ProductID: product.ID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added to favorites", "productId": product.ID})
	}
}

// DELETE /user/favorites/:product_id
func RemoveFavorite(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		if err := db.Where("user_id = ? AND product_id = ?", c.GetUint("user_id"), productID).
			Delete(&models.Favorite{}).Error; err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
	}
}

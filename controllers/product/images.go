package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/uploads"
	"gorm.io/gorm"
)

// UploadProductImages stores the "images" form files and appends them to
// the product's gallery. The first image becomes the cover when none is set.
func UploadProductImages(db *gorm.DB, store *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				middleware.Fail(c, models.ErrNotFound)
				return
			}
			middleware.Fail(c, err)
			return
		}

		form, err := c.MultipartForm()
		if err != nil || len(form.File["images"]) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least one image is required"})
			return
		}

		for _, fh := range form.File["images"] {
			url, err := store.SaveImage(fh, "products")
			if err != nil {
				if errors.Is(err, uploads.ErrUnsupportedImage) {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				middleware.Fail(c, err)
				return
			}
			product.Images = append(product.Images, url)
			if product.ImageURL == "" {
				product.ImageURL = url
			}
		}

		if err := db.Model(&product).Select("image_url", "images").Updates(&product).Error; err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

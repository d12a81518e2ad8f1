package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductInput struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MinPrice    decimal.Decimal `json:"minPrice"`
	MaxPrice    decimal.Decimal `json:"maxPrice"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl"`
	Images      []string        `json:"images"`
	CategoryID  uint            `json:"categoryId"`
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.MinPrice = in.MinPrice
	p.MaxPrice = in.MaxPrice
	p.Stock = in.Stock
	p.ImageURL = in.ImageURL
	if in.Images != nil {
		p.Images = in.Images
	}
	p.CategoryID = in.CategoryID
}

// SaveProduct creates or updates a product. The id comes from the path on
// PUT and from the body on POST; an unknown id on POST creates a new row.
func SaveProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := input.ID
		mustExist := false
		if raw := c.Param("id"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
				return
			}
			id, mustExist = uint(parsed), true
		}

		product, status, err := saveProduct(db, id, mustExist, input)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(status, product)
	}
}

func saveProduct(db *gorm.DB, id uint, mustExist bool, input ProductInput) (*models.Product, int, error) {
	var product models.Product
	status := http.StatusCreated

	err := db.Transaction(func(tx *gorm.DB) error {
		if id != 0 {
			err := tx.First(&product, id).Error
			switch {
			case err == nil:
				status = http.StatusOK
			case errors.Is(err, gorm.ErrRecordNotFound) && !mustExist:
				product = models.Product{}
			case errors.Is(err, gorm.ErrRecordNotFound):
				return models.ErrNotFound
			default:
				return err
			}
		}

		input.apply(&product)
		if err := product.Validate(); err != nil {
			return err
		}
		if err := checkCategory(tx, product.CategoryID); err != nil {
			return err
		}
		return tx.Save(&product).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return &product, status, nil
}

func checkCategory(tx *gorm.DB, id uint) error {
	if id == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.ErrInvalidProduct("unknown category")
	}
	return nil
}

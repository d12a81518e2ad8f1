package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// Spreadsheet columns, shared by import and export.
var sheetHeaders = []string{
	"ID", "Name", "Description", "Price", "MinPrice", "MaxPrice",
	"Stock", "ImageURL", "CategoryID", "CreatedAt", "UpdatedAt",
}

const importColumns = 9

// ImportProductsFromExcel upserts products from the first sheet. Rows with
// an id update that product; other rows are created. Invalid rows are
// skipped and reported by row number.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount := 0, 0
		skipped := []gin.H{}

		for i := 1; i < sheet.MaxRow && i < len(sheet.Rows); i++ {
			row := sheet.Rows[i]
			if row == nil || len(row.Cells) < importColumns-1 {
				skipped = append(skipped, gin.H{"row": i + 1, "error": "missing columns"})
				continue
			}
			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			input, id, err := parseRow(get)
			if err != nil {
				skipped = append(skipped, gin.H{"row": i + 1, "error": err.Error()})
				continue
			}

			_, status, err := saveProduct(db, id, false, input)
			if err != nil {
				skipped = append(skipped, gin.H{"row": i + 1, "error": err.Error()})
				continue
			}
			if status == http.StatusOK {
				updatedCount++
			} else {
				createdCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": len(skipped),
			"skipped":       skipped,
		})
	}
}

func parseRow(get func(int) string) (ProductInput, uint, error) {
	var input ProductInput
	var id uint
	if s := get(0); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return input, 0, models.ErrInvalidProduct("invalid ID " + s)
		}
		id = uint(n)
	}

	input.Name = get(1)
	input.Description = get(2)
	money := []*decimal.Decimal{&input.Price, &input.MinPrice, &input.MaxPrice}
	for k, dst := range money {
		d, err := decimal.NewFromString(get(3 + k))
		if err != nil {
			return input, 0, models.ErrInvalidProduct("invalid " + sheetHeaders[3+k])
		}
		*dst = d
	}
	stock, err := strconv.ParseFloat(get(6), 64)
	if err != nil {
		return input, 0, models.ErrInvalidProduct("invalid Stock")
	}
	input.Stock = int(stock)
	input.ImageURL = get(7)
	if s := get(8); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return input, 0, models.ErrInvalidProduct("invalid CategoryID")
		}
		input.CategoryID = uint(n)
	}
	return input, id, nil
}

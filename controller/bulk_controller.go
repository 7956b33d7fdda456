package controller

import (
	"net/http"
	"strings"

	"cafeapi/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const maxWorkbookSize = 5 << 20

// Workbook column order, after a header row.
const (
	colName = iota
	colMapURL
	colImgURL
	colLocation
	colSeats
	colHasToilet
	colHasWifi
	colHasSockets
	colCanTakeCalls
	colCoffeePrice
)

// BulkAddCafes reads cafes from the first sheet of an uploaded xlsx file and
// adds them one by one.
func (ctl *CafeController) BulkAddCafes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"response": gin.H{"error": "Excel file is required"}})
		return
	}
	if fileHeader.Size > maxWorkbookSize {
		c.JSON(http.StatusBadRequest, gin.H{"response": gin.H{"error": "Excel file exceeds 5MB limit"}})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondInternal(c, err)
		return
	}
	defer file.Close()

	xl, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"response": gin.H{"error": "Failed to parse Excel file"}})
		return
	}
	defer xl.Close()

	rows, err := xl.GetRows(xl.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"response": gin.H{"error": "Excel must have at least one row of data"}})
		return
	}

	var bulk []service.BulkRow
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		coffee := ""
		if p := cell(row, colCoffeePrice); p != nil {
			coffee = *p
		}
		bulk = append(bulk, service.BulkRow{
			Row: i + 2,
			Input: service.AddCafeInput{
				Name:         cell(row, colName),
				MapURL:       cell(row, colMapURL),
				ImgURL:       cell(row, colImgURL),
				Location:     cell(row, colLocation),
				Seats:        cell(row, colSeats),
				HasToilet:    cellFlag(row, colHasToilet),
				HasWifi:      cellFlag(row, colHasWifi),
				HasSockets:   cellFlag(row, colHasSockets),
				CanTakeCalls: cellFlag(row, colCanTakeCalls),
				CoffeePrice:  &coffee,
			},
		})
	}

	res, err := ctl.Service.BulkAdd(c.Request.Context(), bulk)
	if err != nil {
		respondInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": gin.H{
		"success": "Bulk cafe upload finished",
		"added":   res.Added,
		"skipped": res.Skipped,
	}})
}

// cell returns nil for blank or missing cells so required columns are
// reported as missing.
func cell(row []string, i int) *string {
	v := strings.TrimSpace(cellValue(row, i))
	if v == "" {
		return nil
	}
	return &v
}

// cellFlag never returns nil: a blank boolean cell reads as false.
func cellFlag(row []string, i int) *string {
	v := cellValue(row, i)
	return &v
}

func cellValue(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

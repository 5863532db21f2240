package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"

	"nnact/models"
	"nnact/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportHeaders = []string{"ID", "Category", "Amount", "Description", "Expense Date", "Created At"}

// ExportHandler 支出导出，过滤条件与列表查询相同，不分页
type ExportHandler struct {
	svc *service.ExpenseService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(svc *service.ExpenseService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// load 读取过滤条件并查询，失败时已写入响应
func (h *ExportHandler) load(c *gin.Context) ([]models.Expense, bool) {
	fields := map[string]string{}
	filter := parseFilter(c, fields)
	if len(fields) > 0 {
		ValidationFailed(c, "Invalid query parameters", fields)
		return nil, false
	}
	expenses, err := h.svc.Export(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return expenses, true
}

// exportFilename expenses[_start][_end].ext
func exportFilename(c *gin.Context, ext string) string {
	name := "expenses"
	if s := c.Query("startDate"); s != "" {
		name += "_" + s
	}
	if e := c.Query("endDate"); e != "" {
		name += "_" + e
	}
	return name + "." + ext
}

func sumAmounts(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total.Round(2)
}

// ExportCSV 导出为 CSV
// GET /expenses/export/csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	expenses, ok := h.load(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM，Excel 打开时按 UTF-8 识别
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}
	for _, e := range expenses {
		row := []string{
			e.ID,
			e.Category,
			fmt.Sprintf("%.2f", e.Amount),
			e.Description,
			e.ExpenseDate.UTC().Format(exportTimeLayout),
			e.CreatedAt.UTC().Format(exportTimeLayout),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "Failed to generate CSV")
			return
		}
	}
	total := []string{"Total", "", sumAmounts(expenses).StringFixed(2), fmt.Sprintf("%d records", len(expenses)), "", ""}
	if err := writer.Write(total); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "Failed to generate CSV")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(c, "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出为 xlsx
// GET /expenses/export/excel
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	expenses, ok := h.load(c)
	if !ok {
		return
	}

	f, err := buildExpenseWorkbook(expenses)
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(exportFilename(c, "xlsx"))))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "Failed to generate Excel file")
		return
	}
}

// buildExpenseWorkbook 表头、数据行和合计行
func buildExpenseWorkbook(expenses []models.Expense) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Expenses"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "C", "C", 14)
	f.SetColWidth(sheet, "D", "D", 40)
	f.SetColWidth(sheet, "E", "F", 20)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, e := range expenses {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), e.Category)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), e.Amount)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), e.Description)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), e.ExpenseDate.UTC().Format(exportTimeLayout))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), e.CreatedAt.UTC().Format(exportTimeLayout))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)
	}

	summaryRow := len(expenses) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("B%d", summaryRow))
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), sumAmounts(expenses).InexactFloat64())
	f.SetCellValue(sheet, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("%d records", len(expenses)))
	f.MergeCell(sheet, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("F%d", summaryRow))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	return f, nil
}

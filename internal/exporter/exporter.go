package exporter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"productosapi/internal/model"
)

// maxSheetNameLen Excel sheet 名称长度上限
const maxSheetNameLen = 31

// Exporter 把部门商品导出为 xlsx
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 表头为字段名，每个商品一行，列顺序与部门结构一致
func (e *Exporter) Export(dept *model.Schema, products []model.Product) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := SheetName(dept.Key)
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("设置 sheet 名称失败: %w", err)
	}

	headers := dept.FieldNames()
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		_ = f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for i, p := range products {
		row := make([]interface{}, len(headers))
		for j, h := range headers {
			row[j] = p.Get(h)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("写入第 %d 行失败: %w", i+2, err)
		}
	}

	if len(headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetColWidth(sheetName, "A", last, 18)
	}

	return f, nil
}

// SheetName 把部门 key 转为合法的 sheet 名：去掉 []:*?/\ 并截断到 31 个字符
func SheetName(key string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, strings.Trim(strings.TrimSpace(key), "'"))
	if runes := []rune(name); len(runes) > maxSheetNameLen {
		name = string(runes[:maxSheetNameLen])
	}
	if name == "" {
		name = "productos"
	}
	return name
}

// ContentDisposition 下载文件名：productos-<dpto>-<yyyymmdd>.xlsx
func ContentDisposition(deptKey string, at time.Time) string {
	name := fmt.Sprintf("productos-%s-%s.xlsx", deptKey, at.Format("20060102"))
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", name, url.PathEscape(name))
}

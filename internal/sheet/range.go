package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range A1 表示法的区域，如 Hoja1!A2:D、Hoja1!A:J、Hoja1!D5
//
// 列、行均从 1 开始；EndCol / EndRow 为 0 表示开放区间。
type Range struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

var cellRefRe = regexp.MustCompile(`^\$?([A-Za-z]{0,3})\$?(\d*)$`)

// ParseRange 解析 A1 区域
func ParseRange(a1 string) (Range, error) {
	var r Range
	a1 = strings.TrimSpace(a1)
	if a1 == "" {
		return r, fmt.Errorf("空区域")
	}

	cells := a1
	if i := strings.LastIndex(a1, "!"); i >= 0 {
		r.Sheet = strings.Trim(a1[:i], "'")
		cells = a1[i+1:]
	}
	if r.Sheet == "" {
		return r, fmt.Errorf("区域缺少 sheet: %s", a1)
	}

	start, end, isPair := strings.Cut(cells, ":")
	sc, sr, err := parseRef(start)
	if err != nil {
		return r, fmt.Errorf("区域 %s: %w", a1, err)
	}
	if sc == 0 {
		sc = 1
	}
	if sr == 0 {
		sr = 1
	}
	r.StartCol, r.StartRow = sc, sr

	if !isPair {
		// 单元格
		r.EndCol, r.EndRow = sc, sr
		return r, nil
	}

	ec, er, err := parseRef(end)
	if err != nil {
		return r, fmt.Errorf("区域 %s: %w", a1, err)
	}
	if ec != 0 && ec < sc {
		return r, fmt.Errorf("区域 %s: 结束列在起始列之前", a1)
	}
	if er != 0 && er < sr {
		return r, fmt.Errorf("区域 %s: 结束行在起始行之前", a1)
	}
	r.EndCol, r.EndRow = ec, er
	return r, nil
}

func parseRef(ref string) (col, row int, err error) {
	m := cellRefRe.FindStringSubmatch(ref)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, 0, fmt.Errorf("非法单元格引用 %q", ref)
	}
	if m[1] != "" {
		col, err = excelize.ColumnNameToNumber(m[1])
		if err != nil {
			return 0, 0, err
		}
	}
	if m[2] != "" {
		row, err = strconv.Atoi(m[2])
		if err != nil || row < 1 {
			return 0, 0, fmt.Errorf("非法行号 %q", ref)
		}
	}
	return col, row, nil
}

// Width 列数；开放区间返回 0
func (r Range) Width() int {
	if r.EndCol == 0 {
		return 0
	}
	return r.EndCol - r.StartCol + 1
}

// IsCell 是否为单个单元格
func (r Range) IsCell() bool {
	return r.EndCol == r.StartCol && r.EndRow == r.StartRow && r.EndRow != 0
}

// String 还原为 A1 表示法
func (r Range) String() string {
	start, _ := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if r.IsCell() {
		return r.Sheet + "!" + start
	}
	end := ""
	if r.EndCol > 0 {
		end, _ = excelize.ColumnNumberToName(r.EndCol)
	}
	if r.EndRow > 0 {
		end += strconv.Itoa(r.EndRow)
	}
	return r.Sheet + "!" + start + ":" + end
}

// CellA1 生成带 sheet 前缀的单元格地址，如 Hoja1!D3
func CellA1(sheetName, column string, row int) string {
	return fmt.Sprintf("%s!%s%d", sheetName, strings.ToUpper(column), row)
}

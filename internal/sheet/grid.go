package sheet

import "strings"

// sliceGrid 从整张表（第 0 行即表格第 1 行）截取区域
// 与 Sheets API 行为一致：去掉每行尾部空单元格与末尾空行
func sliceGrid(all [][]string, r Range) [][]string {
	out := make([][]string, 0)
	endRow := len(all)
	if r.EndRow > 0 && r.EndRow < endRow {
		endRow = r.EndRow
	}
	for rowNo := r.StartRow; rowNo <= endRow; rowNo++ {
		src := all[rowNo-1]
		var row []string
		for colNo := r.StartCol; colNo <= len(src); colNo++ {
			if r.EndCol > 0 && colNo > r.EndCol {
				break
			}
			row = append(row, src[colNo-1])
		}
		out = append(out, trimRow(row))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func trimRow(row []string) []string {
	n := len(row)
	for n > 0 && row[n-1] == "" {
		n--
	}
	if n == 0 {
		return []string{}
	}
	return row[:n]
}

// nextFreeRow 区域内最后一个非空行之后的行号（1 起）
func nextFreeRow(all [][]string, r Range) int {
	last := r.StartRow - 1
	for rowNo := r.StartRow; rowNo <= len(all); rowNo++ {
		if r.EndRow > 0 && rowNo > r.EndRow {
			break
		}
		if rowHasData(all[rowNo-1], r) {
			last = rowNo
		}
	}
	return last + 1
}

func rowHasData(row []string, r Range) bool {
	for colNo := r.StartCol; colNo <= len(row); colNo++ {
		if r.EndCol > 0 && colNo > r.EndCol {
			break
		}
		if strings.TrimSpace(row[colNo-1]) != "" {
			return true
		}
	}
	return false
}

// setCell 写入单元格，必要时扩展网格
func setCell(all [][]string, col, row int, value string) [][]string {
	for len(all) < row {
		all = append(all, []string{})
	}
	line := all[row-1]
	for len(line) < col {
		line = append(line, "")
	}
	line[col-1] = value
	all[row-1] = line
	return all
}

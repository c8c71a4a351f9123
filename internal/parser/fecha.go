package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// spanishMonths 西语月份名 -> 两位月份
var spanishMonths = map[string]string{
	"enero":      "01",
	"febrero":    "02",
	"marzo":      "03",
	"abril":      "04",
	"mayo":       "05",
	"junio":      "06",
	"julio":      "07",
	"agosto":     "08",
	"septiembre": "09",
	"setiembre":  "09",
	"octubre":    "10",
	"noviembre":  "11",
	"diciembre":  "12",
}

var sortableDateRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

var (
	// ErrEmptyDate 文本日期为空
	ErrEmptyDate = errors.New("fecha vacía")
	// ErrUnknownMonth 无法识别的月份名
	ErrUnknownMonth = errors.New("mes inválido")
	// ErrInvalidDay 日期中的“日”非法
	ErrInvalidDay = errors.New("día inválido")
)

// DateResult 日期规范化结果
//
// Err 非空表示无法得到可排序日期；调用方自行决定是否降级继续。
type DateResult struct {
	Input string
	Value string
	Err   error
}

// OK 是否成功得到 dd/mm/yyyy
func (r DateResult) OK() bool {
	return r.Err == nil && r.Value != ""
}

// DateNormalizer 将 "25 de julio" 转为 "25/07/2025"
type DateNormalizer struct {
	now func() time.Time
}

// NewDateNormalizer 创建规范化器；now 为 nil 时使用 time.Now
func NewDateNormalizer(now func() time.Time) *DateNormalizer {
	if now == nil {
		now = time.Now
	}
	return &DateNormalizer{now: now}
}

// Normalize 规范化文本日期
// 只看第 1 和第 3 个空白分隔的词："<día> de <mes>"；yearHint <= 0 时取当前年份
func (n *DateNormalizer) Normalize(text string, yearHint int) DateResult {
	res := DateResult{Input: text}

	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 {
		res.Err = ErrEmptyDate
		return res
	}

	day := fields[0]
	if !isDay(day) {
		res.Err = fmt.Errorf("%w: %q", ErrInvalidDay, fields[0])
		return res
	}
	if len(day) == 1 {
		day = "0" + day
	}

	monthName := ""
	if len(fields) >= 3 {
		monthName = fields[2]
	}
	month, ok := spanishMonths[monthName]
	if !ok {
		res.Err = fmt.Errorf("%w: %q", ErrUnknownMonth, monthName)
		return res
	}

	year := yearHint
	if year <= 0 {
		year = n.now().Year()
	}

	res.Value = fmt.Sprintf("%s/%s/%04d", day, month, year)
	return res
}

// NormalizeDate 使用当前时钟规范化
func NormalizeDate(text string, yearHint int) DateResult {
	return NewDateNormalizer(nil).Normalize(text, yearHint)
}

// IsSortableDate 严格匹配 dd/mm/yyyy
func IsSortableDate(text string) bool {
	return sortableDateRe.MatchString(text)
}

// MonthCode 返回月份名对应的两位代码
func MonthCode(name string) (string, bool) {
	code, ok := spanishMonths[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

func isDay(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	d, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return d >= 1 && d <= 31
}

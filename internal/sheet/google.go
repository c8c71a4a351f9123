package sheet

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueInputUserEntered = "USER_ENTERED"
	insertDataInsertRows  = "INSERT_ROWS"
)

// GoogleSheets Google Sheets 后端；进程启动时认证一次
type GoogleSheets struct {
	svc *sheets.Service
}

// NewGoogleSheets 使用服务账号凭据创建客户端
// credentialsFile 为空时走 Application Default Credentials
func NewGoogleSheets(ctx context.Context, credentialsFile string) (*GoogleSheets, error) {
	opts := []option.ClientOption{
		option.WithScopes(sheets.SpreadsheetsScope),
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, wrap(OpAuth, "", "", err)
	}
	return &GoogleSheets{svc: svc}, nil
}

// Get 读取区域
func (g *GoogleSheets) Get(ctx context.Context, tableID, rng string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(tableID, rng).Context(ctx).Do()
	if err != nil {
		return nil, wrap(OpGet, tableID, rng, err)
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		out[i] = cells
	}
	return out, nil
}

// Append 追加行（USER_ENTERED + INSERT_ROWS）
func (g *GoogleSheets) Append(ctx context.Context, tableID, rng string, rows [][]string) error {
	vr := &sheets.ValueRange{Values: toValues(rows)}
	_, err := g.svc.Spreadsheets.Values.Append(tableID, rng, vr).
		ValueInputOption(valueInputUserEntered).
		InsertDataOption(insertDataInsertRows).
		Context(ctx).
		Do()
	return wrap(OpAppend, tableID, rng, err)
}

// Update 覆盖单元格
func (g *GoogleSheets) Update(ctx context.Context, tableID, cell, value string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := g.svc.Spreadsheets.Values.Update(tableID, cell, vr).
		ValueInputOption(valueInputUserEntered).
		Context(ctx).
		Do()
	return wrap(OpUpdate, tableID, cell, err)
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

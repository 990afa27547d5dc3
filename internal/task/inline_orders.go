package task

import (
	"context"
	"fmt"
	"time"

	"yqms/internal/syncer"

	"gorm.io/gorm"
)

// inline_orders replicates the sewing operation list per order/style from
// YMCE_SYSTEM. The view dump is complete for its scope on every fetch, so
// the task sweeps documents that disappeared from the source.

const inlineOrdersQuery = `
SELECT St_No, By_Style, Tg_No, Tg_Code, Ma_Code, ch_name, kh_name, Dept_Type
FROM ViewTg
WHERE Dept_Type = 'Sewing'`

type inlineOrderRow struct {
	StNo     string `gorm:"column:St_No"`
	ByStyle  string `gorm:"column:By_Style"`
	TgNo     string `gorm:"column:Tg_No"`
	TgCode   string `gorm:"column:Tg_Code"`
	MaCode   string `gorm:"column:Ma_Code"`
	ChName   string `gorm:"column:ch_name"`
	KhName   string `gorm:"column:kh_name"`
	DeptType string `gorm:"column:Dept_Type"`
}

type InlineOrderItem struct {
	TgNo   string `json:"tgNo" bson:"tgNo"`
	TgCode string `json:"tgCode" bson:"tgCode"`
	MaCode string `json:"maCode" bson:"maCode"`
	ChName string `json:"chName" bson:"chName"`
	KhName string `json:"khName" bson:"khName"`
}

// InlineOrderRecord is one grouped order/style/department; one record
// becomes one target document.
type InlineOrderRecord struct {
	StNo     string
	ByStyle  string
	DeptType string
	Items    []InlineOrderItem
}

func fetchInlineOrders(ctx context.Context, db *gorm.DB) ([]syncer.SourceRecord, error) {
	var rows []inlineOrderRow
	if err := db.WithContext(ctx).Raw(inlineOrdersQuery).Scan(&rows).Error; err != nil {
		return nil, err
	}

	// Group flat view rows into one record per order/style/department,
	// preserving first-seen order.
	idx := make(map[string]int)
	var records []*InlineOrderRecord
	for _, r := range rows {
		key := r.StNo + "|" + r.ByStyle + "|" + r.DeptType
		i, ok := idx[key]
		if !ok {
			records = append(records, &InlineOrderRecord{
				StNo:     r.StNo,
				ByStyle:  r.ByStyle,
				DeptType: r.DeptType,
			})
			i = len(records) - 1
			idx[key] = i
		}
		records[i].Items = append(records[i].Items, InlineOrderItem{
			TgNo:   r.TgNo,
			TgCode: r.TgCode,
			MaCode: r.MaCode,
			ChName: r.ChName,
			KhName: r.KhName,
		})
	}

	out := make([]syncer.SourceRecord, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out, nil
}

func transformInlineOrder(rec syncer.SourceRecord) (*syncer.Candidate, error) {
	r, ok := rec.(*InlineOrderRecord)
	if !ok {
		return nil, fmt.Errorf("unexpected record type %T", rec)
	}
	if r.StNo == "" {
		return nil, fmt.Errorf("missing style number")
	}
	return &syncer.Candidate{
		Key: map[string]interface{}{
			"stNo":     r.StNo,
			"byStyle":  r.ByStyle,
			"deptType": r.DeptType,
		},
		Fields: map[string]interface{}{
			"stNo":      r.StNo,
			"byStyle":   r.ByStyle,
			"deptType":  r.DeptType,
			"orderData": r.Items,
		},
	}, nil
}

func InlineOrders(s Settings) *syncer.Task {
	return &syncer.Task{
		Name:        "inline_orders",
		Source:      orDefault(s.Source, "ymce"),
		Collection:  orDefault(s.Collection, "inline_orders"),
		KeyFields:   []string{"stNo", "byStyle", "deptType"},
		Cadence:     orDefaultDuration(s.Cadence, 3*time.Hour),
		MaxRetries:  s.MaxRetries,
		RetryBase:   s.RetryBase,
		RetryJitter: s.RetryJitter,
		Sweep:       true,
		Fetch:       fetchInlineOrders,
		Transform:   transformInlineOrder,
	}
}

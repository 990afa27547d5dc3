package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yqms/internal/syncer"

	"gorm.io/gorm"
)

// cutpanel_orders mirrors recent cutting transactions from FCSYSTEM. The
// source keeps ten positional size/ratio/qty column groups per row; the
// transform folds them into a markerRatio array.

const cutPanelOrdersQuery = `
SELECT StyleNo, TxnDate, TxnNo, Buyer, BuyerStyle, Color, ChColor, ColorCode,
       LotNo, Mackerno, TotalOrderQty, TotalTTLRoll, TotalPlanLayer, TotalActualLayer, TotalPcs,
       Size1, Size2, Size3, Size4, Size5, Size6, Size7, Size8, Size9, Size10,
       CuttingRatio1, CuttingRatio2, CuttingRatio3, CuttingRatio4, CuttingRatio5,
       CuttingRatio6, CuttingRatio7, CuttingRatio8, CuttingRatio9, CuttingRatio10,
       OrderQty1, OrderQty2, OrderQty3, OrderQty4, OrderQty5,
       OrderQty6, OrderQty7, OrderQty8, OrderQty9, OrderQty10
FROM CutPanelDetail
WHERE TxnDate >= ?`

type cutPanelRow struct {
	StyleNo          string    `gorm:"column:StyleNo"`
	TxnDate          time.Time `gorm:"column:TxnDate"`
	TxnNo            string    `gorm:"column:TxnNo"`
	Buyer            string    `gorm:"column:Buyer"`
	BuyerStyle       string    `gorm:"column:BuyerStyle"`
	Color            string    `gorm:"column:Color"`
	ChColor          string    `gorm:"column:ChColor"`
	ColorCode        string    `gorm:"column:ColorCode"`
	LotNo            string    `gorm:"column:LotNo"`
	MackerNo         string    `gorm:"column:Mackerno"`
	TotalOrderQty    int       `gorm:"column:TotalOrderQty"`
	TotalTTLRoll     int       `gorm:"column:TotalTTLRoll"`
	TotalPlanLayer   int       `gorm:"column:TotalPlanLayer"`
	TotalActualLayer int       `gorm:"column:TotalActualLayer"`
	TotalPcs         int       `gorm:"column:TotalPcs"`

	Size1  string `gorm:"column:Size1"`
	Size2  string `gorm:"column:Size2"`
	Size3  string `gorm:"column:Size3"`
	Size4  string `gorm:"column:Size4"`
	Size5  string `gorm:"column:Size5"`
	Size6  string `gorm:"column:Size6"`
	Size7  string `gorm:"column:Size7"`
	Size8  string `gorm:"column:Size8"`
	Size9  string `gorm:"column:Size9"`
	Size10 string `gorm:"column:Size10"`

	CuttingRatio1  int `gorm:"column:CuttingRatio1"`
	CuttingRatio2  int `gorm:"column:CuttingRatio2"`
	CuttingRatio3  int `gorm:"column:CuttingRatio3"`
	CuttingRatio4  int `gorm:"column:CuttingRatio4"`
	CuttingRatio5  int `gorm:"column:CuttingRatio5"`
	CuttingRatio6  int `gorm:"column:CuttingRatio6"`
	CuttingRatio7  int `gorm:"column:CuttingRatio7"`
	CuttingRatio8  int `gorm:"column:CuttingRatio8"`
	CuttingRatio9  int `gorm:"column:CuttingRatio9"`
	CuttingRatio10 int `gorm:"column:CuttingRatio10"`

	OrderQty1  int `gorm:"column:OrderQty1"`
	OrderQty2  int `gorm:"column:OrderQty2"`
	OrderQty3  int `gorm:"column:OrderQty3"`
	OrderQty4  int `gorm:"column:OrderQty4"`
	OrderQty5  int `gorm:"column:OrderQty5"`
	OrderQty6  int `gorm:"column:OrderQty6"`
	OrderQty7  int `gorm:"column:OrderQty7"`
	OrderQty8  int `gorm:"column:OrderQty8"`
	OrderQty9  int `gorm:"column:OrderQty9"`
	OrderQty10 int `gorm:"column:OrderQty10"`
}

type MarkerRatio struct {
	Index        int    `json:"no" bson:"no"`
	Size         string `json:"size" bson:"size"`
	CuttingRatio int    `json:"cuttingRatio" bson:"cuttingRatio"`
	OrderQty     int    `json:"orderQty" bson:"orderQty"`
}

func (r *cutPanelRow) markerRatios() []MarkerRatio {
	sizes := []string{r.Size1, r.Size2, r.Size3, r.Size4, r.Size5, r.Size6, r.Size7, r.Size8, r.Size9, r.Size10}
	ratios := []int{r.CuttingRatio1, r.CuttingRatio2, r.CuttingRatio3, r.CuttingRatio4, r.CuttingRatio5, r.CuttingRatio6, r.CuttingRatio7, r.CuttingRatio8, r.CuttingRatio9, r.CuttingRatio10}
	qtys := []int{r.OrderQty1, r.OrderQty2, r.OrderQty3, r.OrderQty4, r.OrderQty5, r.OrderQty6, r.OrderQty7, r.OrderQty8, r.OrderQty9, r.OrderQty10}

	out := make([]MarkerRatio, 0, len(sizes))
	for i, size := range sizes {
		if strings.TrimSpace(size) == "" {
			continue
		}
		out = append(out, MarkerRatio{
			Index:        i + 1,
			Size:         strings.TrimSpace(size),
			CuttingRatio: ratios[i],
			OrderQty:     qtys[i],
		})
	}
	return out
}

const cutPanelWindow = 72 * time.Hour

func fetchCutPanelOrders(ctx context.Context, db *gorm.DB) ([]syncer.SourceRecord, error) {
	since := time.Now().Add(-cutPanelWindow)
	var rows []cutPanelRow
	if err := db.WithContext(ctx).Raw(cutPanelOrdersQuery, since).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]syncer.SourceRecord, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func transformCutPanelOrder(rec syncer.SourceRecord) (*syncer.Candidate, error) {
	r, ok := rec.(*cutPanelRow)
	if !ok {
		return nil, fmt.Errorf("unexpected record type %T", rec)
	}
	if strings.TrimSpace(r.TxnNo) == "" {
		return nil, fmt.Errorf("missing transaction number")
	}
	return &syncer.Candidate{
		Key: map[string]interface{}{
			"txnNo": strings.TrimSpace(r.TxnNo),
		},
		Fields: map[string]interface{}{
			"txnNo":            strings.TrimSpace(r.TxnNo),
			"styleNo":          r.StyleNo,
			"txnDate":          r.TxnDate,
			"buyer":            r.Buyer,
			"buyerStyle":       r.BuyerStyle,
			"color":            r.Color,
			"chColor":          r.ChColor,
			"colorCode":        r.ColorCode,
			"lotNo":            r.LotNo,
			"mackerNo":         r.MackerNo,
			"totalOrderQty":    r.TotalOrderQty,
			"totalTTLRoll":     r.TotalTTLRoll,
			"totalPlanLayer":   r.TotalPlanLayer,
			"totalActualLayer": r.TotalActualLayer,
			"totalPcs":         r.TotalPcs,
			"markerRatio":      r.markerRatios(),
		},
	}, nil
}

func CutPanelOrders(s Settings) *syncer.Task {
	return &syncer.Task{
		Name:        "cutpanel_orders",
		Source:      orDefault(s.Source, "fcsystem"),
		Collection:  orDefault(s.Collection, "cutpanel_orders"),
		KeyFields:   []string{"txnNo"},
		WindowField: "txnDate",
		Window:      cutPanelWindow,
		Cadence:     orDefaultDuration(s.Cadence, 30*time.Minute),
		MaxRetries:  s.MaxRetries,
		RetryBase:   s.RetryBase,
		RetryJitter: s.RetryJitter,
		Fetch:       fetchCutPanelOrders,
		Transform:   transformCutPanelOrder,
	}
}

package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yqms/internal/syncer"

	"gorm.io/gorm"
)

// qc1_sunrise merges endline inspection output with defect detail from the
// YM_DataStore reporting database. Output and defects live in separate
// tables keyed by the same inspection identity, so the fetch runs two
// queries and joins them in memory before handing records downstream.

const qc1OutputQuery = `
SELECT BillDate, LineNo, MoNo, SizeName, ColorNo, ColorName, T38, T39
FROM DailyOutput
WHERE BillDate >= ?`

const qc1DefectQuery = `
SELECT BillDate, LineNo, MoNo, SizeName, ColorNo, ColorName, ReworkCode, Qty
FROM DailyRework
WHERE BillDate >= ?`

type qc1OutputRow struct {
	BillDate  time.Time `gorm:"column:BillDate"`
	LineNo    string    `gorm:"column:LineNo"`
	MoNo      string    `gorm:"column:MoNo"`
	SizeName  string    `gorm:"column:SizeName"`
	ColorNo   string    `gorm:"column:ColorNo"`
	ColorName string    `gorm:"column:ColorName"`
	T38       int       `gorm:"column:T38"`
	T39       int       `gorm:"column:T39"`
}

type qc1DefectRow struct {
	BillDate   time.Time `gorm:"column:BillDate"`
	LineNo     string    `gorm:"column:LineNo"`
	MoNo       string    `gorm:"column:MoNo"`
	SizeName   string    `gorm:"column:SizeName"`
	ColorNo    string    `gorm:"column:ColorNo"`
	ColorName  string    `gorm:"column:ColorName"`
	ReworkCode string    `gorm:"column:ReworkCode"`
	Qty        int       `gorm:"column:Qty"`
}

type QC1Defect struct {
	ReworkCode string `json:"reworkCode" bson:"reworkCode"`
	DefectName string `json:"defectName" bson:"defectName"`
	Qty        int    `json:"qty" bson:"qty"`
}

// QC1Record is one inspection cell: a date/line/MO/size/color combination
// with its checked quantity and attached defect list.
type QC1Record struct {
	InspectionDate time.Time
	LineNo         string
	MoNo           string
	Size           string
	ColorNo        string
	ColorName      string
	CheckedQty     int
	Defects        []QC1Defect
}

func qc1JoinKey(date time.Time, lineNo, moNo, size, colorNo, colorName string) string {
	return strings.Join([]string{
		date.Format("2006-01-02"), lineNo, moNo, size, colorNo, colorName,
	}, "|")
}

const qc1Window = 7 * 24 * time.Hour

func fetchQC1Sunrise(ctx context.Context, db *gorm.DB) ([]syncer.SourceRecord, error) {
	since := time.Now().Add(-qc1Window)

	var outputs []qc1OutputRow
	if err := db.WithContext(ctx).Raw(qc1OutputQuery, since).Scan(&outputs).Error; err != nil {
		return nil, err
	}
	var defects []qc1DefectRow
	if err := db.WithContext(ctx).Raw(qc1DefectQuery, since).Scan(&defects).Error; err != nil {
		return nil, err
	}

	byCell := make(map[string][]QC1Defect, len(defects))
	for _, d := range defects {
		if d.Qty <= 0 {
			continue
		}
		k := qc1JoinKey(d.BillDate, d.LineNo, d.MoNo, d.SizeName, d.ColorNo, d.ColorName)
		byCell[k] = append(byCell[k], QC1Defect{
			ReworkCode: d.ReworkCode,
			DefectName: defectName(d.ReworkCode),
			Qty:        d.Qty,
		})
	}

	out := make([]syncer.SourceRecord, 0, len(outputs))
	for _, o := range outputs {
		checked := o.T38
		if o.T39 > checked {
			checked = o.T39
		}
		k := qc1JoinKey(o.BillDate, o.LineNo, o.MoNo, o.SizeName, o.ColorNo, o.ColorName)
		out = append(out, &QC1Record{
			InspectionDate: o.BillDate,
			LineNo:         o.LineNo,
			MoNo:           o.MoNo,
			Size:           o.SizeName,
			ColorNo:        o.ColorNo,
			ColorName:      o.ColorName,
			CheckedQty:     checked,
			Defects:        byCell[k],
		})
	}
	return out, nil
}

func transformQC1Sunrise(rec syncer.SourceRecord) (*syncer.Candidate, error) {
	r, ok := rec.(*QC1Record)
	if !ok {
		return nil, fmt.Errorf("unexpected record type %T", rec)
	}
	if r.MoNo == "" || r.InspectionDate.IsZero() {
		return nil, fmt.Errorf("missing inspection identity")
	}

	total := 0
	for _, d := range r.Defects {
		total += d.Qty
	}
	dateStr := r.InspectionDate.Format("2006-01-02")

	return &syncer.Candidate{
		Key: map[string]interface{}{
			"inspectionDate": dateStr,
			"lineNo":         r.LineNo,
			"moNo":           r.MoNo,
			"size":           r.Size,
			"colorNo":        r.ColorNo,
		},
		Fields: map[string]interface{}{
			"inspectionDate":   dateStr,
			"inspectionDateTs": r.InspectionDate,
			"lineNo":           r.LineNo,
			"moNo":             r.MoNo,
			"size":             r.Size,
			"colorNo":          r.ColorNo,
			"colorName":        r.ColorName,
			"buyer":            determineBuyer(r.MoNo),
			"checkedQty":       r.CheckedQty,
			"totalDefectsQty":  total,
			"defectArray":      r.Defects,
		},
	}, nil
}

func QC1Sunrise(s Settings) *syncer.Task {
	return &syncer.Task{
		Name:        "qc1_sunrise",
		Source:      orDefault(s.Source, "ymdatastore"),
		Collection:  orDefault(s.Collection, "qc1_sunrise"),
		KeyFields:   []string{"inspectionDate", "lineNo", "moNo", "size", "colorNo"},
		WindowField: "inspectionDateTs",
		Window:      qc1Window,
		Cadence:     orDefaultDuration(s.Cadence, time.Hour),
		MaxRetries:  s.MaxRetries,
		RetryBase:   s.RetryBase,
		RetryJitter: s.RetryJitter,
		Fetch:       fetchQC1Sunrise,
		Transform:   transformQC1Sunrise,
	}
}

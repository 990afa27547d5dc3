package task

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

func TestFetchInlineOrdersGroupsByOrder(t *testing.T) {
	gdb, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"St_No", "By_Style", "Tg_No", "Tg_Code", "Ma_Code", "ch_name", "kh_name", "Dept_Type"}).
		AddRow("SO123", "STYLE-A", "10", "T10", "M01", "缝合", "ការដេរ", "Sewing").
		AddRow("SO123", "STYLE-A", "20", "T20", "M02", "锁边", "អ៊ុត", "Sewing").
		AddRow("SO456", "STYLE-B", "10", "T10", "M01", "缝合", "ការដេរ", "Sewing")
	mock.ExpectQuery("SELECT St_No, By_Style").WillReturnRows(rows)

	recs, err := fetchInlineOrders(context.Background(), gdb)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0].(*InlineOrderRecord)
	assert.Equal(t, "SO123", first.StNo)
	assert.Equal(t, "STYLE-A", first.ByStyle)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "10", first.Items[0].TgNo)
	assert.Equal(t, "20", first.Items[1].TgNo)

	second := recs[1].(*InlineOrderRecord)
	assert.Equal(t, "SO456", second.StNo)
	require.Len(t, second.Items, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransformInlineOrder(t *testing.T) {
	rec := &InlineOrderRecord{
		StNo:     "SO123",
		ByStyle:  "STYLE-A",
		DeptType: "Sewing",
		Items:    []InlineOrderItem{{TgNo: "10", TgCode: "T10"}},
	}

	cand, err := transformInlineOrder(rec)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"stNo":     "SO123",
		"byStyle":  "STYLE-A",
		"deptType": "Sewing",
	}, cand.Key)
	assert.Equal(t, rec.Items, cand.Fields["orderData"])

	_, err = transformInlineOrder(&InlineOrderRecord{ByStyle: "STYLE-A"})
	assert.Error(t, err)
}

func TestCutPanelMarkerRatiosSkipEmptySizes(t *testing.T) {
	row := &cutPanelRow{
		Size1: "S", Size2: "M", Size3: " ", Size4: "XL",
		CuttingRatio1: 1, CuttingRatio2: 2, CuttingRatio4: 1,
		OrderQty1: 100, OrderQty2: 200, OrderQty4: 50,
	}

	ratios := row.markerRatios()
	require.Len(t, ratios, 3)
	assert.Equal(t, MarkerRatio{Index: 1, Size: "S", CuttingRatio: 1, OrderQty: 100}, ratios[0])
	assert.Equal(t, MarkerRatio{Index: 2, Size: "M", CuttingRatio: 2, OrderQty: 200}, ratios[1])
	assert.Equal(t, MarkerRatio{Index: 4, Size: "XL", CuttingRatio: 1, OrderQty: 50}, ratios[2])
}

func TestTransformCutPanelOrder(t *testing.T) {
	row := &cutPanelRow{
		TxnNo:   " TX-9001 ",
		StyleNo: "STYLE-A",
		TxnDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Size1:   "S", CuttingRatio1: 2, OrderQty1: 40,
	}

	cand, err := transformCutPanelOrder(row)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"txnNo": "TX-9001"}, cand.Key)
	assert.Equal(t, "STYLE-A", cand.Fields["styleNo"])
	assert.Len(t, cand.Fields["markerRatio"], 1)

	_, err = transformCutPanelOrder(&cutPanelRow{TxnNo: "  "})
	assert.Error(t, err)
}

func TestFetchQC1SunriseJoinsDefects(t *testing.T) {
	gdb, mock := newMockDB(t)
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	outputs := sqlmock.NewRows([]string{"BillDate", "LineNo", "MoNo", "SizeName", "ColorNo", "ColorName", "T38", "T39"}).
		AddRow(day, "L01", "MO-CO-1", "M", "C1", "Navy", 100, 120).
		AddRow(day, "L02", "MO-CO-1", "M", "C1", "Navy", 80, 60)
	mock.ExpectQuery("FROM DailyOutput").WillReturnRows(outputs)

	defects := sqlmock.NewRows([]string{"BillDate", "LineNo", "MoNo", "SizeName", "ColorNo", "ColorName", "ReworkCode", "Qty"}).
		AddRow(day, "L01", "MO-CO-1", "M", "C1", "Navy", "D01", 3).
		AddRow(day, "L01", "MO-CO-1", "M", "C1", "Navy", "D12", 1).
		AddRow(day, "L01", "MO-CO-1", "M", "C1", "Navy", "D03", 0)
	mock.ExpectQuery("FROM DailyRework").WillReturnRows(defects)

	recs, err := fetchQC1Sunrise(context.Background(), gdb)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0].(*QC1Record)
	assert.Equal(t, 120, first.CheckedQty)
	require.Len(t, first.Defects, 2)
	assert.Equal(t, "Broken stitch", first.Defects[0].DefectName)

	second := recs[1].(*QC1Record)
	assert.Equal(t, 80, second.CheckedQty)
	assert.Empty(t, second.Defects)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransformQC1Sunrise(t *testing.T) {
	rec := &QC1Record{
		InspectionDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		LineNo:         "L01",
		MoNo:           "MO-AR-7",
		Size:           "M",
		ColorNo:        "C1",
		ColorName:      "Navy",
		CheckedQty:     120,
		Defects: []QC1Defect{
			{ReworkCode: "D01", DefectName: "Broken stitch", Qty: 3},
			{ReworkCode: "D12", DefectName: "Oil stain", Qty: 1},
		},
	}

	cand, err := transformQC1Sunrise(rec)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", cand.Key["inspectionDate"])
	assert.Equal(t, "Aritzia", cand.Fields["buyer"])
	assert.Equal(t, 4, cand.Fields["totalDefectsQty"])
	assert.Equal(t, rec.InspectionDate, cand.Fields["inspectionDateTs"])

	_, err = transformQC1Sunrise(&QC1Record{LineNo: "L01"})
	assert.Error(t, err)
}

func TestDetermineBuyer(t *testing.T) {
	cases := map[string]string{
		"MO-CO-123": "Costco",
		"MO-AR-9":   "Aritzia",
		"MO-RT-2":   "Reitmans",
		"MO-AF-5":   "ANF",
		"MO-NT-1":   "STORI",
		"MO-XX-1":   "Other",
		"":          "Other",
	}
	for mo, want := range cases {
		assert.Equal(t, want, determineBuyer(mo), mo)
	}
}

func TestNewRegistryDefaults(t *testing.T) {
	conf := viper.New()
	conf.Set("tasks.cutpanel_orders.cadence", "15m")

	reg, err := NewRegistry(conf)
	require.NoError(t, err)

	st := reg.Get("cutpanel_orders")
	require.NotNil(t, st)
	assert.Equal(t, 15*time.Minute, st.Task.Cadence)

	st = reg.Get("inline_orders")
	require.NotNil(t, st)
	assert.Equal(t, "ymce", st.Task.Source)
	assert.True(t, st.Task.Sweep)

	st = reg.Get("qc1_sunrise")
	require.NotNil(t, st)
	assert.Equal(t, "ymdatastore", st.Task.Source)
	assert.Equal(t, 3, st.Task.MaxRetries)
}

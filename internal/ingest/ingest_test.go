package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/gridops/gridassess/internal/store"
)

type fakeStorage struct {
	leaders  map[string]store.Leader
	nextID   int64
	inserted []store.Assessment
	bulkErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{leaders: map[string]store.Leader{}}
}

func (f *fakeStorage) UpsertLeader(name, area string) error {
	if _, ok := f.leaders[name]; !ok {
		f.nextID++
		f.leaders[name] = store.Leader{ID: f.nextID, Name: name, Area: area}
	}
	return nil
}

func (f *fakeStorage) LeaderByName(name string) (store.Leader, error) {
	l, ok := f.leaders[name]
	if !ok {
		return store.Leader{}, store.ErrNotFound
	}
	return l, nil
}

func (f *fakeStorage) BulkInsert(list []store.Assessment) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.inserted = append(f.inserted, list...)
	return nil
}

const sampleCSV = `姓名,辖区,评估日期,催单率,终端收入
张三,城东网格,2026-08-01,55.5,80
李四,城西网格,2026-08-01 09:30:00,70,90
张三,城东网格,2026-07-01,60,61
`

func sampleMapping() Mapping {
	return Mapping{
		Name: "姓名",
		Area: "辖区",
		Date: "评估日期",
		Dimensions: map[string]string{
			"reminder_rate":    "催单率",
			"terminal_revenue": "终端收入",
		},
	}
}

func TestReadCSV(t *testing.T) {
	table, err := ReadFile("upload.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"姓名", "辖区", "评估日期", "催单率", "终端收入"}, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "张三", table.Rows[0][0])
}

func TestReadCSVGBKEncoded(t *testing.T) {
	encoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewEncoder(), []byte(sampleCSV))
	require.NoError(t, err)

	table, err := ReadFile("upload.csv", bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, "姓名", table.Header[0])
	assert.Equal(t, "城西网格", table.Rows[1][1])
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadFile("upload.csv", strings.NewReader("  \n\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ReadFile("upload.csv", strings.NewReader("姓名,辖区\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadFileUnsupported(t *testing.T) {
	_, err := ReadFile("upload.txt", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]interface{}{
		{"name", "area", "date", "reminder_rate"},
		{"张三", "城东网格", "2026-08-01", 42.5},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cellRef, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	table, err := ReadFile("upload.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "area", "date", "reminder_rate"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "42.5", table.Rows[0][3])
}

func TestImport(t *testing.T) {
	table, err := ReadFile("upload.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	fs := newFakeStorage()
	imp := NewImporter(fs, nil)
	imp.now = func() time.Time { return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC) }

	res, err := imp.Import(table, sampleMapping())
	require.NoError(t, err)

	assert.Equal(t, Result{Leaders: 2, Imported: 3, Skipped: 0}, res)
	require.Len(t, fs.inserted, 3)

	first := fs.inserted[0]
	assert.Equal(t, fs.leaders["张三"].ID, first.LeaderID)
	assert.Equal(t, "2026/08/01", first.Date)
	assert.Equal(t, "2026/08/28", first.ImportDate)
	assert.Equal(t, 55.5, first.Scores["reminder_rate"])
	assert.Equal(t, 80.0, first.Scores["terminal_revenue"])

	// Datetime form normalizes the same way.
	assert.Equal(t, "2026/08/01", fs.inserted[1].Date)
}

func TestImportSkipsBadRows(t *testing.T) {
	csv := `name,area,date,reminder_rate
张三,城东网格,2026-08-01,50
李四,城西网格,not-a-date,60
王五,城南网格,2026-08-02,NaN?
`
	table, err := ReadFile("upload.csv", strings.NewReader(csv))
	require.NoError(t, err)

	fs := newFakeStorage()
	imp := NewImporter(fs, nil)

	res, err := imp.Import(table, Mapping{
		Name: "name", Area: "area", Date: "date",
		Dimensions: map[string]string{"reminder_rate": "reminder_rate"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Leaders)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "not-a-date")
}

func TestImportRejectsOutOfRangeScores(t *testing.T) {
	csv := `name,area,date,reminder_rate
张三,城东网格,2026-08-01,150
李四,城西网格,2026-08-01,-5
王五,城南网格,2026-08-02,100
`
	table, err := ReadFile("upload.csv", strings.NewReader(csv))
	require.NoError(t, err)

	fs := newFakeStorage()
	imp := NewImporter(fs, nil)

	res, err := imp.Import(table, Mapping{
		Name: "name", Area: "area", Date: "date",
		Dimensions: map[string]string{"reminder_rate": "reminder_rate"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "out of range")

	require.Len(t, fs.inserted, 1)
	assert.Equal(t, 100.0, fs.inserted[0].Scores["reminder_rate"])
}

func TestImportMappingValidation(t *testing.T) {
	table := Table{Header: []string{"name"}, Rows: [][]string{{"x"}}}

	imp := NewImporter(newFakeStorage(), nil)

	_, err := imp.Import(table, Mapping{Name: "name"})
	assert.Error(t, err, "missing area/date mapping")

	_, err = imp.Import(table, Mapping{Name: "name", Area: "gone", Date: "name"})
	assert.Error(t, err, "mapped column absent from file")

	_, err = imp.Import(table, Mapping{
		Name: "name", Area: "name", Date: "name",
		Dimensions: map[string]string{"made_up_dim": "name"},
	})
	assert.Error(t, err, "unknown dimension code")
}

func TestAutoMapping(t *testing.T) {
	m := AutoMapping([]string{"姓名", "辖区", "评估日期", "催单率", "terminal_revenue", "ignored"})

	assert.Equal(t, "姓名", m.Name)
	assert.Equal(t, "辖区", m.Area)
	assert.Equal(t, "评估日期", m.Date)
	assert.Equal(t, "催单率", m.Dimensions["reminder_rate"])
	assert.Equal(t, "terminal_revenue", m.Dimensions["terminal_revenue"])
	assert.NoError(t, m.Validate())
}

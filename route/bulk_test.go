package route

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"cafeapi/service"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var workbookHeader = []any{
	"name", "map_url", "img_url", "location", "seats",
	"has_toilet", "has_wifi", "has_sockets", "can_take_calls", "coffee_price",
}

func buildWorkbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	all := append([][]any{workbookHeader}, rows...)
	for i, row := range all {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, addr, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func (s *testServer) upload(t *testing.T, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "cafes.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/add/excel", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type bulkBody struct {
	Response struct {
		Success string               `json:"success"`
		Added   int                  `json:"added"`
		Skipped []service.SkippedRow `json:"skipped"`
		Error   string               `json:"error"`
	} `json:"response"`
}

func TestBulkAdd_FromWorkbook(t *testing.T) {
	s := newTestServer(t, false)
	s.addCafe(t, "Existing", "Soho")

	data := buildWorkbook(t,
		[]any{"Bulk One", "https://m/1", "https://i/1", "Hackney", "10-20", "TRUE", "FALSE", "TRUE", "FALSE", "£2.20"},
		[]any{"Existing", "https://m/2", "https://i/2", "Soho", "5", "TRUE", "TRUE", "TRUE", "TRUE", "£3"},
		[]any{"No Seats", "https://m/3", "https://i/3", "Soho", "", "TRUE", "TRUE", "TRUE", "TRUE", "£3"},
		[]any{},
		[]any{"Bulk Two", "https://m/4", "https://i/4", "Peckham", "50+", "FALSE", "TRUE"},
	)

	w := s.upload(t, "file", data)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body bulkBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Response.Added)
	assert.Equal(t, []service.SkippedRow{
		{Row: 3, Reason: service.MsgDuplicateName},
		{Row: 4, Reason: "Missing required fields: seats"},
	}, body.Response.Skipped)

	all := s.listAll(t)
	assert.Len(t, all, 3)

	one := findByName(all, "Bulk One")
	require.Len(t, one, 1)
	assert.True(t, one[0].Amenities.HasToilet)
	assert.False(t, one[0].Amenities.HasWifi)
	assert.True(t, one[0].Amenities.HasSockets)
	assert.False(t, one[0].Amenities.CanTakeCalls)

	two := findByName(all, "Bulk Two")
	require.Len(t, two, 1)
	assert.False(t, two[0].Amenities.HasSockets)
	require.NotNil(t, two[0].CoffeePrice)
	assert.Equal(t, "", *two[0].CoffeePrice)
}

func TestBulkAdd_BadUploads(t *testing.T) {
	s := newTestServer(t, false)

	w := s.upload(t, "other", buildWorkbook(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(t, "file", []byte("not a workbook"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(t, "file", buildWorkbook(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body bulkBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Excel must have at least one row of data", body.Response.Error)
}

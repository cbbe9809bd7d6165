package table

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadAndDetectByHeader(t *testing.T) {
	path := writeCSV(t, "name,Advertiser URL\nacme,https://adstransparency.google.com/advertiser/AR1\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	col, err := tbl.DetectURLColumn()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if col != 1 {
		t.Errorf("expected column 1, got %d", col)
	}
}

func TestDetectByLinkHeader(t *testing.T) {
	path := writeCSV(t, "profile_link,name\nhttps://example.com,acme\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	col, err := tbl.DetectURLColumn()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if col != 0 {
		t.Errorf("expected column 0, got %d", col)
	}
}

func TestDetectFallbackFirstCell(t *testing.T) {
	path := writeCSV(t, "a,b\nhttps://adstransparency.google.com/advertiser/AR1,acme\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	col, err := tbl.DetectURLColumn()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if col != 0 {
		t.Errorf("expected fallback to column 0, got %d", col)
	}
}

func TestDetectFailure(t *testing.T) {
	path := writeCSV(t, "a,b\nacme,anvils\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := tbl.DetectURLColumn(); err == nil {
		t.Error("expected an error when no URL column exists")
	}
}

func TestRowsPreserveOrderAndFillMissing(t *testing.T) {
	path := writeCSV(t, "url\nhttps://a.example\nhttps://b.example\n")
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rows := tbl.Rows(0)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Index != 0 || rows[0].URL != "https://a.example" {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[1].Index != 1 || rows[1].URL != "https://b.example" {
		t.Errorf("unexpected second row %+v", rows[1])
	}
}

func TestSetColumnAppends(t *testing.T) {
	tbl := &Table{
		Header:  []string{"url"},
		Records: [][]string{{"https://a.example"}, {"https://b.example"}},
	}
	tbl.SetColumn("number of ads", []string{"Approximately 12 ads", "no ads"})
	if want := []string{"url", "number of ads"}; !reflect.DeepEqual(tbl.Header, want) {
		t.Errorf("expected header %v, got %v", want, tbl.Header)
	}
	if tbl.Records[0][1] != "Approximately 12 ads" || tbl.Records[1][1] != "no ads" {
		t.Errorf("unexpected records %v", tbl.Records)
	}
}

func TestSetColumnReplacesExisting(t *testing.T) {
	tbl := &Table{
		Header:  []string{"url", "number of ads"},
		Records: [][]string{{"https://a.example", "stale"}},
	}
	tbl.SetColumn("number of ads", []string{"no ads"})
	if len(tbl.Header) != 2 {
		t.Fatalf("expected header untouched, got %v", tbl.Header)
	}
	if tbl.Records[0][1] != "no ads" {
		t.Errorf("expected replaced value, got %q", tbl.Records[0][1])
	}
}

func TestWriteRoundTrip(t *testing.T) {
	tbl := &Table{
		Header:  []string{"url", "number of ads"},
		Records: [][]string{{"https://a.example", "Approximately 1,200 ads"}},
	}
	path := filepath.Join(t.TempDir(), "output.csv")
	if err := tbl.Write(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(loaded.Header, tbl.Header) {
		t.Errorf("header changed: %v vs %v", loaded.Header, tbl.Header)
	}
	if !reflect.DeepEqual(loaded.Records, tbl.Records) {
		t.Errorf("records changed: %v vs %v", loaded.Records, tbl.Records)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an empty table")
	}
}

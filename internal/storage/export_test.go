package storage

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestExportJSON(t *testing.T) {
	data := NewExportData("solar", "leapfrog", 0.008, testResult(t))

	var buf bytes.Buffer
	if err := ExportJSON(&buf, data); err != nil {
		t.Fatal(err)
	}

	var decoded ExportData
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Ticks != 10 || len(decoded.Times) != 2 || decoded.Kinetic[1] != 1.6 {
		t.Errorf("unexpected export %+v", decoded)
	}
	if len(decoded.Final) != 2 || decoded.Final[1].ID != "earth" {
		t.Errorf("unexpected final bodies %+v", decoded.Final)
	}
}

package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/sortviz/internal/metrics"
)

type ExportData struct {
	Run      RunRecord       `json:"run"`
	Timeline []metrics.Point `json:"timeline"`
}

func ExportJSON(w io.Writer, rec RunRecord, points []metrics.Point) error {
	if points == nil {
		points = []metrics.Point{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: rec, Timeline: points})
}

func ExportJSONFile(path string, rec RunRecord, points []metrics.Point) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, rec, points)
}

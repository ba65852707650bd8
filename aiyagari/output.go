package aiyagari

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// WriteTrajectoriesCSV writes paired asset/consumption trajectories to a CSV
// file with a period column. Both slices must have the same length.
func WriteTrajectoriesCSV(path string, assets, consumption []float64) error {
	if len(assets) != len(consumption) {
		return fmt.Errorf("trajectory lengths differ: %d assets vs %d consumption",
			len(assets), len(consumption))
	}
	rows := make([][]string, 0, len(assets)+1)
	rows = append(rows, []string{"period", "asset", "consumption"})
	for i := range assets {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.FormatFloat(assets[i], 'g', -1, 64),
			strconv.FormatFloat(consumption[i], 'g', -1, 64),
		})
	}
	return writeCSV(path, rows)
}

// WriteSeriesCSV writes a single named trajectory to a CSV file.
func WriteSeriesCSV(path, name string, values []float64) error {
	rows := make([][]string, 0, len(values)+1)
	rows = append(rows, []string{"period", name})
	for i, v := range values {
		rows = append(rows, []string{strconv.Itoa(i), strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logrus.Debugf("wrote %d rows to '%s'", len(rows), path)
	return nil
}

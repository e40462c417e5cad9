package plot

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"abxrxpro/profile"
)

// WriteFrequencyCSV writes the gene frequency aggregate as a CSV report.
func WriteFrequencyCSV(path string, freqs []profile.GeneFrequency, totalIsolates int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Gene", "IsolateCount", "Frequency(%)", "Isolates"}); err != nil {
		return err
	}
	for _, freq := range freqs {
		row := []string{
			freq.Gene,
			strconv.Itoa(freq.Count),
			fmt.Sprintf("%.1f", freq.Percent(totalIsolates)),
			strings.Join(freq.Isolates, "; "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

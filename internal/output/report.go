package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpgo/cashflow-forecast/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the report in the named format to a file in dir.
// The pseudo format "all" writes the verbose console and detailed CSV files.
func GenerateReport(report *domain.ForecastReport, format, dir string) ([]string, error) {
	if f := GetFormatterByName(format); f != nil {
		path, err := WriteFormatted(f, report, dir, Extension(f.Name()))
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVDetailedExporter{}} {
			path, err := WriteFormatted(f, report, dir, Extension(f.Name()))
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}
	return nil, unsupported(format)
}

// Render formats the report and writes it to w.
func Render(w io.Writer, f Formatter, report *domain.ForecastReport) error {
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// Lookup resolves a format name or returns an error listing the choices.
func Lookup(format string) (Formatter, error) {
	if f := GetFormatterByName(format); f != nil {
		return f, nil
	}
	return nil, unsupported(format)
}

func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// SaveForecasts writes the raw forecasts as YAML, for use as fixtures.
func SaveForecasts(report *domain.ForecastReport, filename string) error {
	b, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

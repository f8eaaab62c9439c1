package distro

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Fetcher retrieves a remote document.
type Fetcher interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}

// LookupCodename translates a numeric release into the series codename using
// the distro-info-data CSV for the family. Families without a CSV, and
// versions without a matching row, return version unchanged.
func LookupCodename(ctx context.Context, f Fetcher, baseURL string, family Family, version string) (string, error) {
	if !family.UsesApt() {
		return version, nil
	}

	url := fmt.Sprintf("%s/%s.csv", strings.TrimSuffix(baseURL, "/"), family)
	body, err := f.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetching distro-info for %s: %w", family, err)
	}
	defer body.Close()

	codename, err := parseDistroInfo(body, version)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", url, err)
	}
	if codename == "" {
		return version, nil
	}
	return codename, nil
}

// parseDistroInfo scans distro-info-data rows (version,codename,series,...)
// for version. Ubuntu versions carry a suffix ("22.04 LTS"), so a version
// followed by a space also matches.
func parseDistroInfo(r io.Reader, version string) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return "", fmt.Errorf("reading header: %w", err)
	}

	versionCol, seriesCol := 0, 2
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "version":
			versionCol = i
		case "series":
			seriesCol = i
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if len(record) <= versionCol || len(record) <= seriesCol {
			continue
		}

		v := record[versionCol]
		if v == version || strings.HasPrefix(v, version+" ") {
			return strings.TrimSpace(record[seriesCol]), nil
		}
	}
}

package bhav

import (
	"fmt"
	"strings"

	"nse-bhav/internal/models"
)

// DefaultBaseURL is the NSE archives host.
const DefaultBaseURL = "https://nsearchives.nseindia.com"

// ArchivePath returns the URL path of the day's bhav copy archive.
// Dates on or after the cutover use the UDiFF path with the date embedded
// as YYYYMMDD; earlier dates use the legacy path with day, uppercase
// three-letter month and year components.
func ArchivePath(d models.Date) string {
	if SchemaFor(d) == SchemaModern {
		return fmt.Sprintf("/content/cm/BhavCopy_NSE_CM_0_0_0_%s_F_0000.csv.zip", d.Compact())
	}

	t := d.Time()
	year := t.Format("2006")
	month := strings.ToUpper(t.Format("Jan"))
	day := t.Format("02")
	return fmt.Sprintf("/content/historical/EQUITIES/%s/%s/cm%s%s%sbhav.csv.zip", year, month, day, month, year)
}

// ArchiveURL returns the full archive URL for a date against the given
// base URL (empty means DefaultBaseURL).
func ArchiveURL(baseURL string, d models.Date) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimSuffix(baseURL, "/") + ArchivePath(d)
}

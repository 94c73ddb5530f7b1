package bhav

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"nse-bhav/internal/models"
)

// Property: For any date between inception and far future, the schema
// variant and the archive path agree. Dates before the cutover must take
// the legacy historical path; the cutover and everything after must take
// the UDiFF path with the compact date embedded.
func TestProperty_SchemaAndPathAgree(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	inception := InceptionDate.Time()
	horizon := time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC)
	spanDays := int(horizon.Sub(inception).Hours() / 24)

	dateGen := gen.IntRange(0, spanDays).Map(func(offset int) models.Date {
		return InceptionDate.AddDays(offset)
	})

	properties.Property("legacy dates take the historical path", prop.ForAll(
		func(d models.Date) bool {
			path := ArchivePath(d)
			if d.Before(CutoverDate) {
				return SchemaFor(d) == SchemaLegacy &&
					strings.HasPrefix(path, "/content/historical/EQUITIES/")
			}
			return SchemaFor(d) == SchemaModern &&
				strings.Contains(path, d.Compact()) &&
				strings.HasPrefix(path, "/content/cm/")
		},
		dateGen,
	))

	properties.Property("archive paths are unique per date", prop.ForAll(
		func(d models.Date) bool {
			return ArchivePath(d) != ArchivePath(d.AddDays(1))
		},
		dateGen,
	))

	properties.TestingRun(t)
}

// Property: Normalizing any table forces every output record to the target
// date and uppercases symbol and series, regardless of raw cell contents.
func TestProperty_NormalizeForcesDateAndCase(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbolGen := gen.RegexMatch(`[a-zA-Z]{1,10}`)
	seriesGen := gen.OneConstOf("eq", "EQ", "be", "Sm", "GB")

	properties.Property("date forced, identifiers uppercased", prop.ForAll(
		func(symbol, series string, offset int) bool {
			date := models.NewDate(2023, time.January, 1).AddDays(offset % 365)
			table := Table{
				Headers: []string{"SYMBOL", "SERIES", "TIMESTAMP"},
				Rows:    [][]string{{symbol, series, "31-DEC-1999"}},
			}

			records := Normalize(table, date)
			if len(records) != 1 {
				return false
			}
			rec := records[0]
			return rec.Date == date &&
				rec.Symbol == strings.ToUpper(symbol) &&
				rec.Series == strings.ToUpper(series)
		},
		symbolGen, seriesGen, gen.IntRange(0, 10000),
	))

	properties.TestingRun(t)
}

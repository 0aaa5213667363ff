package analysis

import (
	"github.com/de-tools/emotion-atlas/pkg/models/domain"
)

const (
	ForecastNote = "Preliminary forecast based on the last data point because data is limited. " +
		"Accurate predictions require a larger dataset and a proper time-series model."
	NoDataForecastNote = "No data available for forecasting."
)

// Forecast carries the last observation forward.
func Forecast(series *domain.Series) domain.Forecast {
	if series.Len() == 0 {
		return domain.Forecast{Note: NoDataForecastNote}
	}
	return domain.Forecast{
		Values: series.Row(series.Len() - 1),
		Note:   ForecastNote,
	}
}

// DominantCategory returns the category with the highest value. Ties go to
// the earliest category.
func DominantCategory(values domain.CategoryValues) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	best := values[0]
	for _, v := range values[1:] {
		if v.Value > best.Value {
			best = v
		}
	}
	return best.Category, true
}

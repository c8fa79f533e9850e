package bot

import "trendscout/internal/domain"

// RefreshLabel captions the permanent regenerate control.
const RefreshLabel = "🔄 Regenerate"

// BuildTrendKeyboard lays trends out two per row in input order (no
// reordering, no dedup) and appends one full-width regenerate row. The
// regenerate control is always present, including for zero trends.
func BuildTrendKeyboard(trends []domain.Trend) domain.Keyboard {
	rows := make([][]domain.KeyboardButton, 0, len(trends)/2+2)

	for i := 0; i < len(trends); i += 2 {
		row := []domain.KeyboardButton{buttonFor(trends[i])}
		if i+1 < len(trends) {
			row = append(row, buttonFor(trends[i+1]))
		}
		rows = append(rows, row)
	}

	rows = append(rows, []domain.KeyboardButton{{
		Label: RefreshLabel,
		Data:  CallbackRefresh,
	}})

	return domain.Keyboard{Rows: rows}
}

func buttonFor(trend domain.Trend) domain.KeyboardButton {
	return domain.KeyboardButton{
		Label: trend.Name,
		Data:  EncodeTrend(trend.Name),
	}
}

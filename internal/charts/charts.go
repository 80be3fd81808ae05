package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ivanoskov/walriust/internal/model"
)

// ChartGenerator генерирует графики для отчетов
type ChartGenerator struct {
	Width  int
	Height int
}

// NewChartGenerator создает новый генератор графиков
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{Width: 1200, Height: 600}
}

// GenerateCategorySummary рисует круговую диаграмму расходов по категориям.
// Возвращает nil, если положительных сумм нет.
func (g *ChartGenerator) GenerateCategorySummary(totals []model.CategoryTotal) ([]byte, error) {
	var total int64
	for _, t := range totals {
		if t.Amount > 0 {
			total = model.AddCents(total, t.Amount)
		}
	}
	if total == 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		if t.Amount <= 0 {
			continue
		}
		share := float64(t.Amount) / float64(total) * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", t.Category.Title(), model.FormatCents(t.Amount), share),
			Value: float64(t.Amount),
		})
	}

	pie := chart.PieChart{
		Width:  g.Width,
		Height: g.Height,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category summary: %w", err)
	}

	return buffer.Bytes(), nil
}

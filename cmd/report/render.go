package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/eventdash/internal/domain/models"
	"github.com/mamadbah2/eventdash/internal/locale"
	"github.com/mamadbah2/eventdash/internal/report"
	"github.com/mamadbah2/eventdash/internal/service/reporting"
	"github.com/mamadbah2/eventdash/pkg/tablefmt"
)

type renderer struct {
	f   locale.Formatting
	out io.Writer
}

func (r renderer) value(metric string, d decimal.Decimal) string {
	if strings.Contains(metric, report.MetricValue) || metric == report.MetricTicket {
		return r.f.FormatMoney(d)
	}
	return r.f.FormatInt(d.IntPart())
}

func (r renderer) reportTable(title string, t models.ReportTable) tablefmt.Table {
	out := tablefmt.Table{Title: title, Header: append([]string{}, t.Keys...), Right: map[int]bool{}}
	typed := false
	for _, row := range t.Rows {
		if row.Type != "" {
			typed = true
			break
		}
	}
	if typed {
		out.Header = append(out.Header, "Tipo")
	}
	out.Header = append(out.Header, t.Metric)
	out.Right[len(out.Header)-1] = true

	for _, row := range t.Rows {
		cells := append([]string{}, row.Key...)
		if typed {
			cells = append(cells, row.Type)
		}
		out.Rows = append(out.Rows, append(cells, r.value(t.Metric, row.Value)))
	}
	return out
}

func (r renderer) tables(title string, tables map[string]models.ReportTable) error {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.reportTable(title+" / "+name, tables[name]).Write(r.out); err != nil {
			return err
		}
	}
	return nil
}

func (r renderer) stats(v reporting.StatsView) error {
	venues := make([]string, 0, len(v.Venues))
	for venue := range v.Venues {
		venues = append(venues, venue)
	}
	sort.Strings(venues)

	for _, venue := range venues {
		t := tablefmt.Table{
			Title:  fmt.Sprintf("Estatísticas %s %d", venue, v.Year),
			Header: []string{"Coluna", "count", "mean", "std", "min", "25%", "50%", "75%", "max"},
			Right:  map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true},
		}
		for _, s := range v.Venues[venue] {
			t.Rows = append(t.Rows, []string{
				s.Column, strconv.Itoa(s.Count),
				float(s.Mean), float(s.Std), float(s.Min),
				float(s.Q25), float(s.Q50), float(s.Q75), float(s.Max),
			})
		}
		if err := t.Write(r.out); err != nil {
			return err
		}
	}
	return nil
}

func float(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func (r renderer) distribution(d report.Distribution) error {
	t := tablefmt.Table{
		Title:  fmt.Sprintf("Distribuição de convidados %s %d (%d eventos, %s)", d.Venue, d.Year, d.Events, r.f.FormatMoney(d.Total)),
		Header: []string{"Convidados", "Eventos", "% eventos", "Valor", "% valor"},
		Right:  map[int]bool{1: true, 2: true, 3: true, 4: true},
	}
	for _, b := range d.Bins {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%.1f - %.1f", b.Lower, b.Upper),
			strconv.Itoa(b.Count),
			b.CountPct.StringFixed(2),
			r.f.FormatMoney(b.Value),
			b.ValuePct.StringFixed(2),
		})
	}
	return t.Write(r.out)
}

func (r renderer) details(v reporting.DetailsView) error {
	names := make([]string, 0, len(v.Tables))
	for name := range v.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		grid := v.Tables[name]
		t := tablefmt.Table{Title: "Detalhes / " + name, Header: grid.Columns, Right: map[int]bool{}}
		for _, row := range grid.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = r.cell(c)
				switch c.(type) {
				case int, float64, decimal.Decimal:
					t.Right[i] = true
				}
			}
			t.Rows = append(t.Rows, cells)
		}
		if err := t.Write(r.out); err != nil {
			return err
		}
	}
	return nil
}

func (r renderer) cell(c any) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return r.f.FormatInt(int64(v))
	case float64:
		return r.f.FormatMoney(decimal.NewFromFloat(v))
	case decimal.Decimal:
		return r.f.FormatMoney(v)
	default:
		return fmt.Sprint(v)
	}
}

func (r renderer) panel(p report.Panel) error {
	title := fmt.Sprintf("Painel %s/%d (%d eventos)", p.MonthLabel, p.Year, p.Events)
	for _, t := range []models.ReportTable{p.Values, p.Guests, p.StageCounts, p.Accumulated} {
		if err := r.reportTable(title+" / "+t.Metric, t).Write(r.out); err != nil {
			return err
		}
	}
	return nil
}

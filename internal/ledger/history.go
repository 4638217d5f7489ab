package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

const dateLayout = "2006-01-02"

// History synthesizes one point per calendar day from inception to asOf, both inclusive,
// moving linearly from initial to total. There is no stored mark-to-market series behind it.
// When asOf is not after inception a single point carrying total is returned.
func History(initial, total decimal.Decimal, inception, asOf time.Time) []model.HistoryPoint {
	end := model.TruncateDay(asOf)
	start := model.TruncateDay(inception)
	if start.IsZero() {
		start = end
	}

	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return []model.HistoryPoint{{Date: end.Format(dateLayout), Value: Round(total)}}
	}

	step := total.Sub(initial).Div(decimal.NewFromInt(int64(days)))
	points := make([]model.HistoryPoint, 0, days+1)
	for i := 0; i <= days; i++ {
		value := initial.Add(step.Mul(decimal.NewFromInt(int64(i))))
		if i == days {
			value = total
		}
		points = append(points, model.HistoryPoint{
			Date:  start.AddDate(0, 0, i).Format(dateLayout),
			Value: Round(value),
		})
	}
	return points
}

// MonthlyReturns computes, per calendar month of the history, (last-first)/first*100 for the
// portfolio and for the benchmark closes. Months with fewer than two portfolio points are
// skipped; Benchmark stays nil when the benchmark has fewer than two closes in the month.
func MonthlyReturns(history []model.HistoryPoint, benchmark []model.ClosePrice) []model.MonthlyReturn {
	type span struct {
		first, last decimal.Decimal
		n           int
	}

	var months []string
	portfolio := make(map[string]*span)
	for _, p := range history {
		month := p.Date[:7]
		s, ok := portfolio[month]
		if !ok {
			s = &span{first: p.Value}
			portfolio[month] = s
			months = append(months, month)
		}
		s.last = p.Value
		s.n++
	}

	bench := make(map[string]*span)
	for _, c := range benchmark {
		month := c.Date.Format("2006-01")
		s, ok := bench[month]
		if !ok {
			s = &span{first: c.Close}
			bench[month] = s
		}
		s.last = c.Close
		s.n++
	}

	returns := []model.MonthlyReturn{}
	for _, month := range months {
		s := portfolio[month]
		if s.n < 2 || s.first.IsZero() {
			continue
		}
		r := model.MonthlyReturn{
			Month:   month,
			Returns: Round(percentOf(s.last.Sub(s.first), s.first)),
		}
		if b, ok := bench[month]; ok && b.n >= 2 && !b.first.IsZero() {
			v := Round(percentOf(b.last.Sub(b.first), b.first))
			r.Benchmark = &v
		}
		returns = append(returns, r)
	}
	return returns
}

package reports

import (
	"strings"
	"time"
)

// sqlDatetimeFormat is the literal format bound for DATETIME
// comparisons.
const sqlDatetimeFormat = "2006-01-02 15:04:05"

// clauseTarget selects where a filter clause is evaluated. Predicates
// over aggregate expressions (orders_count, total_spend, last order
// date) must go to HAVING because they depend on GROUP BY results;
// everything else goes to WHERE.
type clauseTarget int

const (
	targetWhere clauseTarget = iota
	targetHaving
)

// clause is a single filter group: a boolean SQL expression with its
// bound arguments. Range groups arrive pre-parenthesized with their
// min/max subclauses already joined by AND.
type clause struct {
	expr string
	args []any
}

// clauseSet accumulates filter groups for the WHERE and HAVING
// positions of a report query. Groups are joined with the match
// operator and rendered after a neutral 1=1 base predicate, so the
// assembled SQL stays syntactically valid with zero active filters and
// never dangles an operator.
type clauseSet struct {
	operator string
	where    []clause
	having   []clause
}

func newClauseSet(match string) *clauseSet {
	operator := "AND"
	if match == MatchAny {
		operator = "OR"
	}
	return &clauseSet{operator: operator}
}

func (s *clauseSet) add(target clauseTarget, expr string, args ...any) {
	c := clause{expr: expr, args: args}
	if target == targetHaving {
		s.having = append(s.having, c)
	} else {
		s.where = append(s.where, c)
	}
}

// addTimeWindow appends a parenthesized date-window group for the
// column. Nil bounds contribute nothing; a window with no bounds is a
// no-op, never a malformed fragment.
func (s *clauseSet) addTimeWindow(target clauseTarget, column string, after, before *time.Time) {
	var subclauses []string
	var args []any

	if before != nil {
		subclauses = append(subclauses, column+" <= ?")
		args = append(args, before.UTC().Format(sqlDatetimeFormat))
	}
	if after != nil {
		subclauses = append(subclauses, column+" >= ?")
		args = append(args, after.UTC().Format(sqlDatetimeFormat))
	}
	if len(subclauses) == 0 {
		return
	}
	s.add(target, "( "+strings.Join(subclauses, " AND ")+" )", args...)
}

// addNumericRange appends a parenthesized min/max group for the
// expression. Bounds are inclusive.
func (s *clauseSet) addNumericRange(target clauseTarget, expr string, min, max any) {
	var subclauses []string
	var args []any

	if min != nil {
		subclauses = append(subclauses, expr+" >= ?")
		args = append(args, min)
	}
	if max != nil {
		subclauses = append(subclauses, expr+" <= ?")
		args = append(args, max)
	}
	if len(subclauses) == 0 {
		return
	}
	s.add(target, "( "+strings.Join(subclauses, " AND ")+" )", args...)
}

// render returns the SQL fragment for the target position (prefixed
// with a connector so it concatenates after the 1=1 base) plus its
// bound arguments. With no groups it returns the empty string.
func (s *clauseSet) render(target clauseTarget) (string, []any) {
	clauses := s.where
	if target == targetHaving {
		clauses = s.having
	}
	if len(clauses) == 0 {
		return "", nil
	}

	exprs := make([]string, len(clauses))
	var args []any
	for i, c := range clauses {
		exprs[i] = c.expr
		args = append(args, c.args...)
	}
	return " AND " + strings.Join(exprs, " "+s.operator+" "), args
}

func int64Arg(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// buildClauses translates normalized query arguments into the WHERE and
// HAVING filter groups of the customers report.
func buildClauses(args QueryArgs) *clauseSet {
	cs := newClauseSet(args.Match)

	cs.addTimeWindow(targetWhere, customerTable+".date_registered", args.RegisteredAfter, args.RegisteredBefore)
	cs.addTimeWindow(targetWhere, customerTable+".date_last_active", args.LastActiveAfter, args.LastActiveBefore)
	cs.addTimeWindow(targetHaving, exprDateLastOrder, args.LastOrderAfter, args.LastOrderBefore)

	if args.Username != "" {
		cs.add(targetWhere, customerTable+".username = ?", args.Username)
	}
	if args.Email != "" {
		cs.add(targetWhere, customerTable+".email = ?", args.Email)
	}
	if args.Country != "" {
		cs.add(targetWhere, customerTable+".country = ?", args.Country)
	}
	if args.Name != "" {
		cs.add(targetWhere, exprFullName+" = ?", args.Name)
	}

	cs.addNumericRange(targetHaving, exprOrdersCount, int64Arg(args.OrdersCountMin), int64Arg(args.OrdersCountMax))
	cs.addNumericRange(targetHaving, exprTotalSpend, floatArg(args.TotalSpendMin), floatArg(args.TotalSpendMax))
	cs.addNumericRange(targetHaving, exprAvgOrderValue, floatArg(args.AvgOrderValueMin), floatArg(args.AvgOrderValueMax))

	return cs
}

// statusCondition renders the order-status filter folded into the join
// condition, restricting which order rows feed the aggregates.
func statusCondition(args QueryArgs) (string, []any) {
	var parts []string
	var bound []any

	if len(args.StatusIs) > 0 {
		parts = append(parts, orderStatsTable+".status IN ("+placeholders(len(args.StatusIs))+")")
		for _, status := range args.StatusIs {
			bound = append(bound, status)
		}
	}
	if len(args.StatusIsNot) > 0 {
		parts = append(parts, orderStatsTable+".status NOT IN ("+placeholders(len(args.StatusIsNot))+")")
		for _, status := range args.StatusIsNot {
			bound = append(bound, status)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " AND ( " + strings.Join(parts, " AND ") + " )", bound
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

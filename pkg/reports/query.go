package reports

import (
	"strings"

	"github.com/shoplens/shoplens/pkg/repository"
)

const (
	customerTable   = "customer_lookup"
	orderStatsTable = "order_stats"
)

// Logical report field names.
const (
	FieldCustomerID     = "customer_id"
	FieldUserID         = "user_id"
	FieldUsername       = "username"
	FieldName           = "name"
	FieldEmail          = "email"
	FieldCountry        = "country"
	FieldCity           = "city"
	FieldPostcode       = "postcode"
	FieldDateRegistered = "date_registered"
	FieldDateLastActive = "date_last_active"
	FieldOrdersCount    = "orders_count"
	FieldTotalSpend     = "total_spend"
	FieldAvgOrderValue  = "avg_order_value"
	FieldDateLastOrder  = "date_last_order"
)

// Aggregate and derived expressions shared by column selection, HAVING
// filters, and sorting. avg_order_value guards the zero-order case with
// NULLIF so a customer with no matching orders yields NULL, not a
// division fault.
const (
	exprFullName      = "CONCAT_WS( ' ', first_name, last_name )"
	exprOrdersCount   = "COUNT( " + orderStatsTable + ".order_id )"
	exprTotalSpend    = "SUM( " + orderStatsTable + ".gross_total )"
	exprAvgOrderValue = "( SUM( " + orderStatsTable + ".gross_total ) / NULLIF( COUNT( " + orderStatsTable + ".order_id ), 0 ) )"
	exprDateLastOrder = "MAX( " + orderStatsTable + ".date_created )"
)

// reportColumns maps each logical field to the SQL select expression
// that produces it. Callers may request any subset.
var reportColumns = map[string]string{
	FieldCustomerID:     customerTable + ".customer_id",
	FieldUserID:         customerTable + ".user_id",
	FieldUsername:       customerTable + ".username",
	FieldName:           exprFullName + " AS name",
	FieldEmail:          customerTable + ".email",
	FieldCountry:        customerTable + ".country",
	FieldCity:           customerTable + ".city",
	FieldPostcode:       customerTable + ".postcode",
	FieldDateRegistered: customerTable + ".date_registered",
	FieldDateLastActive: customerTable + ".date_last_active",
	FieldOrdersCount:    exprOrdersCount + " AS orders_count",
	FieldTotalSpend:     exprTotalSpend + " AS total_spend",
	FieldAvgOrderValue:  exprAvgOrderValue + " AS avg_order_value",
	FieldDateLastOrder:  exprDateLastOrder + " AS date_last_order",
}

// reportFieldOrder fixes the column order of the full data query.
var reportFieldOrder = []string{
	FieldCustomerID,
	FieldUserID,
	FieldUsername,
	FieldName,
	FieldEmail,
	FieldCountry,
	FieldCity,
	FieldPostcode,
	FieldDateRegistered,
	FieldDateLastActive,
	FieldOrdersCount,
	FieldTotalSpend,
	FieldAvgOrderValue,
	FieldDateLastOrder,
}

// sortExpressions maps orderby keys to ORDER BY expressions. The
// virtual "name" key sorts on the derived full-name concatenation;
// aggregate keys sort on their aggregate expressions so the sort is
// valid even when the field is not selected. Only keys present here are
// accepted by the normalizer, so the expression can be spliced into the
// query without user input ever reaching the SQL text.
var sortExpressions = map[string]string{
	FieldCustomerID:     customerTable + ".customer_id",
	FieldUsername:       customerTable + ".username",
	FieldName:           exprFullName,
	FieldEmail:          customerTable + ".email",
	FieldCountry:        customerTable + ".country",
	FieldCity:           customerTable + ".city",
	FieldPostcode:       customerTable + ".postcode",
	FieldDateRegistered: customerTable + ".date_registered",
	FieldDateLastActive: customerTable + ".date_last_active",
	FieldOrdersCount:    exprOrdersCount,
	FieldTotalSpend:     exprTotalSpend,
	FieldAvgOrderValue:  exprAvgOrderValue,
	FieldDateLastOrder:  exprDateLastOrder,
}

// assembledQuery is an executable statement with its bound arguments.
type assembledQuery struct {
	sql  string
	args []any
}

// fromClause renders the base entity joined to the order-stats
// aggregate table, with the optional status filter folded into the join
// condition.
func fromClause(args QueryArgs) (string, []any) {
	statusCond, statusArgs := statusCondition(args)
	from := customerTable +
		" LEFT JOIN " + orderStatsTable +
		" ON " + customerTable + ".customer_id = " + orderStatsTable + ".customer_id" +
		statusCond
	return from, statusArgs
}

// assembleCountQuery produces the query counting distinct customers
// that survive the WHERE and HAVING filters.
func assembleCountQuery(args QueryArgs) assembledQuery {
	from, fromArgs := fromClause(args)
	cs := buildClauses(args)
	whereFrag, whereArgs := cs.render(targetWhere)
	havingFrag, havingArgs := cs.render(targetHaving)

	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ( SELECT ")
	sb.WriteString(customerTable + ".customer_id")
	sb.WriteString(" FROM ")
	sb.WriteString(from)
	sb.WriteString(" WHERE 1=1")
	sb.WriteString(whereFrag)
	sb.WriteString(" GROUP BY ")
	sb.WriteString(customerTable + ".customer_id")
	sb.WriteString(" HAVING 1=1")
	sb.WriteString(havingFrag)
	sb.WriteString(" ) AS filtered_customers")

	bound := append(append(fromArgs, whereArgs...), havingArgs...)
	return assembledQuery{sql: sb.String(), args: bound}
}

// assembleDataQuery produces the row-fetching query for the selected
// fields, sharing the filter fragments with the count query and adding
// ordering and pagination.
func assembleDataQuery(args QueryArgs, pag repository.Pagination) assembledQuery {
	from, fromArgs := fromClause(args)
	cs := buildClauses(args)
	whereFrag, whereArgs := cs.render(targetWhere)
	havingFrag, havingArgs := cs.render(targetHaving)

	selections := make([]string, len(args.Fields))
	for i, field := range args.Fields {
		selections[i] = reportColumns[field]
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selections, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(from)
	sb.WriteString(" WHERE 1=1")
	sb.WriteString(whereFrag)
	sb.WriteString(" GROUP BY ")
	sb.WriteString(customerTable + ".customer_id")
	sb.WriteString(" HAVING 1=1")
	sb.WriteString(havingFrag)
	sb.WriteString(" ORDER BY ")
	sb.WriteString(sortExpressions[args.OrderBy])
	sb.WriteString(" ")
	sb.WriteString(string(args.Order))
	sb.WriteString(" LIMIT ? OFFSET ?")

	bound := append(append(fromArgs, whereArgs...), havingArgs...)
	bound = append(bound, pag.Limit(), pag.Offset())
	return assembledQuery{sql: sb.String(), args: bound}
}

// assembleSingleQuery produces the full-column query for one customer.
func assembleSingleQuery(customerID int64) assembledQuery {
	selections := make([]string, len(reportFieldOrder))
	for i, field := range reportFieldOrder {
		selections[i] = reportColumns[field]
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selections, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(customerTable)
	sb.WriteString(" LEFT JOIN " + orderStatsTable)
	sb.WriteString(" ON " + customerTable + ".customer_id = " + orderStatsTable + ".customer_id")
	sb.WriteString(" WHERE " + customerTable + ".customer_id = ?")
	sb.WriteString(" GROUP BY " + customerTable + ".customer_id")

	return assembledQuery{sql: sb.String(), args: []any{customerID}}
}

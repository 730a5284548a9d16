package repository

import "github.com/jmoiron/sqlx"

// Dialect covers the SQL that differs between SQLite and Oracle. Queries
// are written with ? placeholders and rebound for the connection's driver.
type Dialect struct {
	oracle bool
	bind   int
}

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driverName string) Dialect {
	d := Dialect{oracle: driverName == "oracle", bind: sqlx.BindType(driverName)}
	if d.oracle {
		d.bind = sqlx.NAMED
	}
	return d
}

// Rebind rewrites ? placeholders for the driver.
func (d Dialect) Rebind(query string) string {
	if d.bind == sqlx.UNKNOWN {
		return query
	}
	return sqlx.Rebind(d.bind, query)
}

// RandomOrder is an ORDER BY expression that shuffles rows.
func (d Dialect) RandomOrder() string {
	if d.oracle {
		return "DBMS_RANDOM.VALUE"
	}
	return "RANDOM()"
}

// FirstRow limits a query to its first row.
func (d Dialect) FirstRow() string {
	if d.oracle {
		return "FETCH FIRST 1 ROWS ONLY"
	}
	return "LIMIT 1"
}

// Page returns the pagination clause and its arguments in placeholder order.
func (d Dialect) Page(limit, offset int) (string, []interface{}) {
	if d.oracle {
		return "OFFSET ? ROWS FETCH NEXT ? ROWS ONLY", []interface{}{offset, limit}
	}
	return "LIMIT ? OFFSET ?", []interface{}{limit, offset}
}

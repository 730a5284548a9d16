package util

import (
	"database/sql"
	"strings"
)

// StringToNullString stores blank strings as NULL.
func StringToNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NullStringValue returns the string, or "" for NULL.
func NullStringValue(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

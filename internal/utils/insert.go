package querybuilder

// InsertRows holds multiple value tuples for a batch insert
type InsertRows [][]interface{}

package main

import (
	_ "embed"

	"github.com/cy2753/edgar8k/cmd"
)

//go:embed db/schema.sql
var schemaSQL string

func init() {
	cmd.SchemaSQL = schemaSQL
}

func main() {
	cmd.Execute()
}

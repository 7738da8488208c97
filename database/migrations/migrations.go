// Package migrations holds the schema history. Each migration registers
// itself from init(); import the package for its side effect:
//
//	import _ "github.com/shashiranjanraj/shopdesk/database/migrations"
package migrations

// Package migrations holds the project's migration files, one per versioned
// change. Each file registers its Definition from init(); the cm command
// blank-imports this package, so adding a file here is all it takes to make a
// migration known.
//
// Create new files with 'cm generate <name>'.
package migrations

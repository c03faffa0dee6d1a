// Package builder implements the in-memory editing model behind the course
// authoring UI: a normalized course -> module -> lesson/quiz -> question
// tree with a closed set of structural commands.
//
// The Store applies commands synchronously and keeps the tree invariants
// (dense sibling sort order, cascade deletes, parent-id integrity) after
// every mutation. The Session layers persistence on top and is the only
// place an operation can fail for reasons outside the process.
package builder

// Package jsonldb provides a generic, JSON-backed document store.
//
// # Overview
//
// [Document] stores an ordered list of rows as a single pretty-printed JSON
// array. The whole file is rewritten on every [Document.Replace]; there is no
// append or patch format. Writes go to a temporary file in the same directory
// which is then renamed over the target, so readers never observe a partial
// document.
//
// # Schema
//
// [Schema] derives a JSON Schema for the document from the row type, so the
// on-disk format can be published and validated by other tools.
package jsonldb

// Package memory holds map-backed repositories with the same contracts as
// the PostgreSQL ones. They back STORE_DRIVER=memory and the handler tests.
package memory

// Package models contains the GORM models of the storefront tables.
// Domain types stay free of ORM tags; each model converts to and from its domain value.
package models

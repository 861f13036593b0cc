// Package utils provides common utility functions shared across the
// application. It includes helper functions for type conversion between the
// textual values the admin interface returns and the typed values callers
// declare.
package utils

// Package cache is a thin generic layer over go-cache with single-flight style population.
package cache

import "errors"

var ErrNotFound = errors.New("cache: key not found")

// Package core contains canonical interaction domain contracts, entities, and
// configuration. Transport, dispatch, and delivery packages must depend on
// this package; core must not depend on them.
package core

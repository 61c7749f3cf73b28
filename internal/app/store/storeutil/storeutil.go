// internal/app/store/storeutil/storeutil.go
package storeutil

import "go.mongodb.org/mongo-driver/mongo/options"

// MaxPerPage caps listing page sizes so a single request cannot pull an
// unbounded result set.
const MaxPerPage = 100

// DefaultPerPage is used when a caller does not specify a page size.
const DefaultPerPage = 20

// ClampPerPage normalizes a requested page size into [1, MaxPerPage].
func ClampPerPage(perPage int64) int64 {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
func Paginate(perPage, page int64) *options.FindOptions {
	perPage = ClampPerPage(perPage)
	if page <= 0 {
		page = 1
	}
	sk := (page - 1) * perPage
	return options.Find().SetLimit(perPage).SetSkip(sk)
}

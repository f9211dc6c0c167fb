package server_test

import repo "inventory/internal/repository"

func memrepoQuery(itemID int64) repo.TransactionListQuery {
	return repo.TransactionListQuery{Page: 1, Limit: 50, ItemID: &itemID}
}

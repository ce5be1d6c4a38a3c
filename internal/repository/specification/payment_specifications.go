package specification

import "gorm.io/gorm"

type ByTransactionID struct {
	TransactionID string
}

func (s ByTransactionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("transaction_id = ?", s.TransactionID)
}

type ByGateway struct {
	Gateway string
}

func (s ByGateway) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("gateway = ?", s.Gateway)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

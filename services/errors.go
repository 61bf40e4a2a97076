package services

import "errors"

var (
	ErrShopNotFound        = errors.New("shop not found")
	ErrCalculationNotFound = errors.New("calculation not found")
	ErrRateLimited         = errors.New("exchange rate lookup rate limited")
	ErrInvalidRate         = errors.New("exchange rate must be greater than 0")
)

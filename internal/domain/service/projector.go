package service

import (
	"time"

	"HodlCalc/internal/domain/models"
)

// Projector turns a reference price into a projected price for a future month.
type Projector interface {
	Project(currentPrice float64, currentYear int, target models.YearMonth) (models.Projection, error)
	Info(currentPrice float64, now time.Time) (models.ModelInfo, error)
	Summary() string
	Describe() string
}

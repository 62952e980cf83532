package repository

import (
	"context"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
)

type TruckRepository interface {
	Create(ctx context.Context, e *entity.TruckEntry) error
	List(ctx context.Context, f entity.TruckFilter) ([]entity.TruckEntry, error)
}

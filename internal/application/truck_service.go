package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/factory-erp/internal/domain/entity"
	"github.com/oksasatya/factory-erp/internal/domain/repository"
	"github.com/oksasatya/factory-erp/pkg/apperr"
)

type TruckService struct {
	Trucks repository.TruckRepository
	Logger *logrus.Logger
}

type RecordTruckInput struct {
	PlateNumber string
	Direction   entity.Direction
	DriverName  string
	Note        string
}

// Record logs a gate pass attributed to userID.
func (s *TruckService) Record(ctx context.Context, userID string, in RecordTruckInput) (*entity.TruckEntry, error) {
	e := &entity.TruckEntry{
		UserID:      userID,
		PlateNumber: strings.ToUpper(strings.TrimSpace(in.PlateNumber)),
		Direction:   in.Direction,
		DriverName:  strings.TrimSpace(in.DriverName),
		Note:        in.Note,
	}
	if err := s.Trucks.Create(ctx, e); err != nil {
		return nil, apperr.Internal("record truck failed", err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "plate": e.PlateNumber, "direction": e.Direction}).Info("truck recorded")
	return e, nil
}

func (s *TruckService) List(ctx context.Context, f entity.TruckFilter) ([]entity.TruckEntry, error) {
	entries, err := s.Trucks.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal("list trucks failed", err)
	}
	return entries, nil
}

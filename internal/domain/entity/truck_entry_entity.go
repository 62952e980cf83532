package entity

import "time"

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// TruckEntry is one pass of a truck through the factory gate, recorded by a user.
type TruckEntry struct {
	ID          string
	UserID      string
	PlateNumber string
	Direction   Direction
	DriverName  string
	Note        string
	RecordedAt  time.Time
}

type TruckFilter struct {
	UserID    string
	Direction Direction
	Limit     int
	Offset    int
}

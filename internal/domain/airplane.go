package domain

type AirplaneType struct {
	ID   int64
	Name string
}

type Airplane struct {
	ID         int64
	Name       string
	Rows       int
	SeatsInRow int
	Type       AirplaneType
}

func (a Airplane) Capacity() int {
	return a.Rows * a.SeatsInRow
}

// ValidateSeat checks that a 1-based (row, seat) lies inside a rows x seatsInRow grid.
func ValidateSeat(row, seat, rows, seatsInRow int) error {
	if row < 1 || row > rows {
		return seatRangeError(&SeatRangeError{Dimension: "row", Value: row, Max: rows})
	}
	if seat < 1 || seat > seatsInRow {
		return seatRangeError(&SeatRangeError{Dimension: "seat", Value: seat, Max: seatsInRow})
	}
	return nil
}

func seatRangeError(err *SeatRangeError) error {
	return &ValidationError{Field: err.Dimension, Message: err.Error(), Err: err}
}

// ValidateAirplane rejects negative grid dimensions.
func ValidateAirplane(name string, rows, seatsInRow int) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "name is required", Err: ErrRequired}
	}
	if rows < 0 {
		return &ValidationError{Field: "rows", Message: "rows must be greater than or equal to 0", Err: ErrNegativeValue}
	}
	if seatsInRow < 0 {
		return &ValidationError{Field: "seats_in_row", Message: "seats_in_row must be greater than or equal to 0", Err: ErrNegativeValue}
	}
	return nil
}

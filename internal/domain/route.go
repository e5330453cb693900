package domain

type Airport struct {
	ID             int64
	Name           string
	ClosestBigCity string
}

type Route struct {
	ID          int64
	Source      Airport
	Destination Airport
	Distance    int
}

func (r Route) String() string {
	return r.Source.Name + "-" + r.Destination.Name
}

// ValidateRoute rejects negative distances and routes that start and end at the
// same airport.
func ValidateRoute(sourceID, destinationID int64, distance int) error {
	if sourceID == 0 {
		return &ValidationError{Field: "source", Message: "source is required", Err: ErrRequired}
	}
	if destinationID == 0 {
		return &ValidationError{Field: "destination", Message: "destination is required", Err: ErrRequired}
	}
	if sourceID == destinationID {
		return &ValidationError{Field: "destination", Message: "destination must differ from source", Err: ErrSelfRoute}
	}
	if distance < 0 {
		return &ValidationError{Field: "distance", Message: "distance must be greater than or equal to 0", Err: ErrNegativeValue}
	}
	return nil
}

type Crew struct {
	ID        int64
	FirstName string
	LastName  string
	// FlightIDs lists the flights the member is assigned to. Only the crew
	// listing fills it.
	FlightIDs []int64
}

func (c Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

package model

import "fmt"

// Booker identifies who a reservation is made for. An internal booker only
// carries ID. An external reference also names the system the ID comes from.
type Booker struct {
	ID         string
	DataSource string
}

func InternalBooker(id string) Booker {
	return Booker{ID: id}
}

func ExternalBooker(value, dataSource string) Booker {
	return Booker{ID: value, DataSource: dataSource}
}

func (b Booker) IsExternal() bool {
	return b.DataSource != ""
}

func (b Booker) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: booker id is required", ErrInvalidBooker)
	}

	return nil
}

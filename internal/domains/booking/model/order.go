package model

import "fmt"

type OrderKind string

const (
	OrderKindSimple OrderKind = "simple"
	OrderKindUnit   OrderKind = "unit"
	OrderKindSet    OrderKind = "set"
)

// Order describes what to reserve. The set of variants is closed:
// SimpleOrder, UnitOrder and SetOrder.
type Order interface {
	Kind() OrderKind
	Pool() string
	// Units is the number of booking rows the order produces.
	Units() int
	Validate() error

	order()
}

// SimpleOrder reserves one anonymous unit of a pool.
type SimpleOrder struct {
	PoolID string
}

func (o SimpleOrder) Kind() OrderKind { return OrderKindSimple }
func (o SimpleOrder) Pool() string    { return o.PoolID }
func (o SimpleOrder) Units() int      { return 1 }
func (o SimpleOrder) order()          {}

func (o SimpleOrder) Validate() error {
	if o.PoolID == "" {
		return fmt.Errorf("%w: pool id is required", ErrInvalidOrder)
	}

	return nil
}

// UnitOrder reserves one named unit of a pool.
type UnitOrder struct {
	PoolID string
	UnitID string
}

func (o UnitOrder) Kind() OrderKind { return OrderKindUnit }
func (o UnitOrder) Pool() string    { return o.PoolID }
func (o UnitOrder) Units() int      { return 1 }
func (o UnitOrder) order()          {}

func (o UnitOrder) Validate() error {
	if o.PoolID == "" {
		return fmt.Errorf("%w: pool id is required", ErrInvalidOrder)
	}

	if o.UnitID == "" {
		return fmt.Errorf("%w: unit id is required", ErrInvalidOrder)
	}

	return nil
}

// SetOrder reserves Quantity anonymous units of a pool under one booking set.
type SetOrder struct {
	PoolID   string
	Quantity int
}

func (o SetOrder) Kind() OrderKind { return OrderKindSet }
func (o SetOrder) Pool() string    { return o.PoolID }
func (o SetOrder) Units() int      { return o.Quantity }
func (o SetOrder) order()          {}

func (o SetOrder) Validate() error {
	if o.PoolID == "" {
		return fmt.Errorf("%w: pool id is required", ErrInvalidOrder)
	}

	if o.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", ErrInvalidOrder, o.Quantity)
	}

	return nil
}

// NewOrder builds the order variant named by kind.
func NewOrder(kind OrderKind, poolID, unitID string, quantity int) (Order, error) {
	var order Order

	switch kind {
	case OrderKindSimple:
		order = SimpleOrder{PoolID: poolID}
	case OrderKindUnit:
		order = UnitOrder{PoolID: poolID, UnitID: unitID}
	case OrderKindSet:
		order = SetOrder{PoolID: poolID, Quantity: quantity}
	default:
		return nil, fmt.Errorf("%w: unknown order kind %q", ErrInvalidOrder, kind)
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	return order, nil
}

package parser

import (
	"iter"
	"slices"
)

// DefaultCapacity is the number of readings a collection holds when no
// capacity is configured.
const DefaultCapacity = 100

// MaxDateLength is the longest date label accepted for a reading.
const MaxDateLength = 19

// Reading is one dated blood-iron measurement, e.g. {"15-SEP", 7.3}.
type Reading struct {
	Date      string  `json:"date" validate:"required,max=19"`
	BloodIron float64 `json:"bloodIron" validate:"finite,gte=0"`
}

// Collection holds readings in file order, up to a fixed capacity.
// Once loaded it is only read.
type Collection struct {
	readings []Reading
	capacity int
}

// NewCollection returns an empty collection bounded by capacity.
// A non-positive capacity selects DefaultCapacity.
func NewCollection(capacity int) *Collection {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Collection{
		readings: make([]Reading, 0, min(capacity, 16)),
		capacity: capacity,
	}
}

// NewCollectionFrom builds a collection from already parsed readings.
func NewCollectionFrom(capacity int, readings ...Reading) (*Collection, error) {
	c := NewCollection(capacity)
	for _, r := range readings {
		if err := c.add(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collection) add(r Reading) error {
	if len(c.readings) >= c.capacity {
		return &CapacityExceededError{Capacity: c.capacity}
	}
	c.readings = append(c.readings, r)
	return nil
}

// Len returns the number of readings held.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.readings)
}

// Capacity returns the maximum number of readings the collection accepts.
func (c *Collection) Capacity() int { return c.capacity }

// At returns the i-th reading in file order.
func (c *Collection) At(i int) Reading { return c.readings[i] }

// Readings returns a copy of the readings in file order.
func (c *Collection) Readings() []Reading {
	if c == nil {
		return nil
	}
	return slices.Clone(c.readings)
}

// Values returns the blood-iron values in file order.
func (c *Collection) Values() []float64 {
	if c == nil {
		return nil
	}
	values := make([]float64, len(c.readings))
	for i, r := range c.readings {
		values[i] = r.BloodIron
	}
	return values
}

// All yields every reading in file order.
func (c *Collection) All() iter.Seq[Reading] {
	return func(yield func(Reading) bool) {
		if c == nil {
			return
		}
		for _, r := range c.readings {
			if !yield(r) {
				return
			}
		}
	}
}

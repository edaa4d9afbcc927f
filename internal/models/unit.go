package models

import "time"

type Unit struct {
	ID        int64     `json:"id" yaml:"-"`
	Name      string    `json:"name" yaml:"name"`
	Size      float64   `json:"size" yaml:"size"`
	Price     float64   `json:"price" yaml:"price"`
	Images    []string  `json:"images" yaml:"images"`
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// UnitPatch is a partial unit update; only non-nil fields are written.
type UnitPatch struct {
	Name   *string   `json:"name"`
	Size   *float64  `json:"size"`
	Price  *float64  `json:"price"`
	Images *[]string `json:"images"`
	Status *string   `json:"status"`
}

func (p UnitPatch) Empty() bool {
	return p.Name == nil && p.Size == nil && p.Price == nil && p.Images == nil && p.Status == nil
}

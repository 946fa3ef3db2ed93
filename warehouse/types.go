// Package warehouse is a sample inventory data model. Its Order type collides
// by simple name with store.Order.
package warehouse

import (
	"time"
)

// Location is a storage slot in the warehouse.
type Location struct {
	Code  string `json:"code" proxy:"key"`
	Aisle int    `json:"aisle"`
	Shelf int    `json:"shelf"`

	Items []*StockItem `json:"items" proxy:"assoc=Location_Items,this=Code,other=LocationCode"`
}

// ColdLocation is a refrigerated slot.
type ColdLocation struct {
	Location

	MinTemp float64 `json:"min_temp"`
	MaxTemp float64 `json:"max_temp"`
}

// StockItem is the quantity of one SKU held at a location.
type StockItem struct {
	SKU          string `json:"sku" proxy:"key"`
	LocationCode string `json:"location_code"`
	Quantity     int    `json:"quantity"`
	Reserved     int    `json:"reserved" proxy:"exclude"`

	Tags     []string          `json:"tags"`
	Metadata map[string]string `json:"metadata"`

	Location *Location `json:"location" proxy:"assoc=Location_Items,this=LocationCode,other=Code,fk"`
}

// Order is a pick order fulfilled by the warehouse.
type Order struct {
	Number   string        `json:"number" proxy:"key"`
	Priority Priority      `json:"priority"`
	Due      time.Duration `json:"due"`
	PickedAt *time.Time    `json:"picked_at,omitempty"`
}

// Priority orders pick work.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

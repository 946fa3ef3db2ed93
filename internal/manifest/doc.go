// Package manifest loads a YAML description of entity metadata, generation
// units and sharing classifications, and turns it into the inputs of the
// planner: an analyze.Model, a list of plan.Unit and a sharing.Static oracle.
//
// Example:
//
//	version: "1"
//	types:
//	  - name: Shop.Order
//	    members:
//	      - {name: ID, type: int64, key: true}
//	      - name: Customer
//	        type: Shop.Customer?
//	        association: {name: Customer_Orders, this: [CustomerID], other: [ID], foreign_key: true}
//	units:
//	  - name: sales
//	    entities: [Shop.Order, Shop.Customer]
//	sharing:
//	  - type: Shop.Customer
//	    kind: by_reference
//
// Type expressions: "[]T" is a collection, "T?" or "*T" is nullable, primitive
// names resolve to primitives and any other name must be declared in the file.
// Unqualified names resolve in the namespace of the declaring type first.
package manifest

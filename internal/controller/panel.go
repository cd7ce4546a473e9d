package controller

import "github.com/oakwood-commons/aqx/internal/catalog"

// PanelKind tells field chips from worked examples.
type PanelKind int

const (
	PanelField PanelKind = iota
	PanelExample
)

// PanelItem is one selectable row of the suggestion panel.
type PanelItem struct {
	Kind    PanelKind
	Field   catalog.Field
	Example catalog.Example
}

// Title is the text shown for the item.
func (p PanelItem) Title() string {
	if p.Kind == PanelExample {
		return p.Example.Expression
	}
	return p.Field.Key
}

// Detail is the secondary text shown next to the title.
func (p PanelItem) Detail() string {
	if p.Kind == PanelExample {
		return p.Example.Description
	}
	if p.Field.Description != "" {
		return p.Field.Description
	}
	return p.Field.Label
}

// PanelItems lists field chips followed by examples.
func (c *Controller) PanelItems() []PanelItem {
	fields := c.catalog.Fields()
	examples := c.catalog.Examples()
	items := make([]PanelItem, 0, len(fields)+len(examples))
	for _, f := range fields {
		items = append(items, PanelItem{Kind: PanelField, Field: f})
	}
	for _, ex := range examples {
		items = append(items, PanelItem{Kind: PanelExample, Example: ex})
	}
	return items
}

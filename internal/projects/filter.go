package projects

import "sort"

// All is the filter value that shows every project.
const All = "all"

type Project struct {
	Slug     string
	Title    string
	Category string
	Summary  string
	Tags     []string
}

type Card struct {
	Project
	Visible bool
}

type Button struct {
	Value  string
	Active bool
}

// Filter is the state of the project grid after a filter button press.
type Filter struct {
	Active  string
	Buttons []Button
	Cards   []Card
	Visible int
}

// Categories lists the filter values: "all" first, then each category once
// in sorted order.
func Categories(list []Project) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, p := range list {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		cats = append(cats, p.Category)
	}
	sort.Strings(cats)
	return append([]string{All}, cats...)
}

// Apply shows the projects whose category matches value, or all of them for
// "all". An empty value means "all". Unknown values hide every card.
func Apply(list []Project, value string) Filter {
	if value == "" {
		value = All
	}
	f := Filter{Active: value}
	for _, c := range Categories(list) {
		f.Buttons = append(f.Buttons, Button{Value: c, Active: c == value})
	}
	for _, p := range list {
		visible := value == All || p.Category == value
		if visible {
			f.Visible++
		}
		f.Cards = append(f.Cards, Card{Project: p, Visible: visible})
	}
	return f
}

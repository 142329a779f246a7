package seo

// Crumb is one step of a breadcrumb trail. Path is site-relative.
type Crumb struct {
	Name string
	Path string
}

// Trail prepends Home to crumbs. The last crumb is the current page.
func Trail(crumbs ...Crumb) []Crumb {
	return append([]Crumb{{Name: "Home", Path: "/"}}, crumbs...)
}

type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

func (s Site) BreadcrumbSchema(trail []Crumb) BreadcrumbList {
	bl := BreadcrumbList{Context: schemaContext, Type: "BreadcrumbList"}
	for i, c := range trail {
		bl.ItemListElement = append(bl.ItemListElement, ListItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     c.Name,
			Item:     s.URL(c.Path),
		})
	}
	return bl
}

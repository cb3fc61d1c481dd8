package types

// 前端页面描述
type Page struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

var Pages = []Page{
	{Path: "/", Name: "home", Title: "Inicio"},
	{Path: "/admin", Name: "admin", Title: "Panel de Administración"},
	{Path: "/producer", Name: "producer", Title: "Panel del Productor"},
	{Path: "/marketplace", Name: "marketplace", Title: "Mercado"},
}

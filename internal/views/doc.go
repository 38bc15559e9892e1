// Package views renders the HTML pages of the blog as templ components.
//
// Pages are looked up by name ("blog/index", "login", "404", ...) through a
// Renderer. A theme may override any page; names it does not define come
// from the default theme. Each page takes a typed view model from
// models.go and is wrapped in the "layout" page (or "admin/layout").
package views

package web

import (
	"embed"
	"io/fs"
)

//go:embed views/*.html
var views embed.FS

//go:embed static/*
var static embed.FS

// Views holds the server-rendered page templates.
func Views() fs.FS {
	sub, _ := fs.Sub(views, "views")
	return sub
}

// Static holds the browser scripts served at the site root.
func Static() fs.FS {
	sub, _ := fs.Sub(static, "static")
	return sub
}

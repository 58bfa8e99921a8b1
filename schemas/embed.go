// Package schemas embeds the JSON Schemas for Career Hub data files.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

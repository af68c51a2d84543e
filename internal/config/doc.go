// Package config provides the nocta.config.json document.
//
// The config records the project's style, Tailwind CSS path, alias targets
// for generated imports, optional export barrel settings, and an optional
// workspace descriptor used in monorepos:
//
//	{
//	  "$schema": "https://www.nocta-ui.com/registry/config-schema.json",
//	  "style": "default",
//	  "tailwind": { "css": "app/globals.css" },
//	  "aliases": {
//	    "components": "components/ui",
//	    "utils": "lib/utils"
//	  },
//	  "workspace": {
//	    "kind": "app",
//	    "linkedWorkspaces": [
//	      { "kind": "ui", "root": "packages/ui", "config": "../packages/ui/nocta.config.json" }
//	    ]
//	  }
//	}
//
// Alias targets accept either a bare path or {"filesystem": ..., "import": ...}
// when the import alias differs from the directory location.
package config
